// Package dbtest opens throwaway SQLite databases for tests.
package dbtest

import (
	"path/filepath"
	"testing"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/arnold/devgrowth-api/internal/database"
)

// Open returns a migrated database in a temp dir that is closed when the test
// ends. The sample goal catalog is seeded.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.Connect(filepath.Join(t.TempDir(), "test.db"), logger.Silent)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("test db handle: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	if err := database.SeedGoals(db, database.SampleWeeklyGoals); err != nil {
		t.Fatalf("seed test db: %v", err)
	}
	return db
}
