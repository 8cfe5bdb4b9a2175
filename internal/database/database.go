package database

import (
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/arnold/devgrowth-api/internal/models"
)

// Connect opens PostgreSQL when url starts with postgres, otherwise SQLite.
// SQLite connections get foreign keys switched on so association rows cannot
// point at a missing log.
func Connect(url string, level logger.LogLevel) (*gorm.DB, error) {
	var dialector gorm.Dialector

	if strings.HasPrefix(url, "postgres") {
		dialector = postgres.Open(url)
	} else {
		dialector = sqlite.Open(sqliteDSN(url))
	}

	return gorm.Open(dialector, &gorm.Config{
		Logger:  logger.Default.LogMode(level),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
}

func sqliteDSN(url string) string {
	if strings.Contains(url, "_foreign_keys") || strings.Contains(url, "_fk=") {
		return url
	}
	if strings.Contains(url, "?") {
		return url + "&_foreign_keys=on"
	}
	return url + "?_foreign_keys=on"
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.DailyLog{},
		&models.DailyLogTag{},
		&models.DailyLogGoal{},
		&models.WeeklyGoal{},
	)
}
