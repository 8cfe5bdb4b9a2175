package database

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/arnold/devgrowth-api/internal/models"
)

// SampleWeeklyGoals is the starter goal catalog.
var SampleWeeklyGoals = []models.WeeklyGoal{
	{
		ID:            "wg1",
		Title:         "Learn React Performance Optimization",
		Category:      models.CategoryLearning,
		WeekStartDate: "2025-05-15",
		WeekEndDate:   "2025-05-21",
		Tags:          []string{"react", "optimization", "performance"},
		Progress:      70,
	},
	{
		ID:            "wg2",
		Title:         "Design Portfolio Website",
		Category:      models.CategoryProject,
		WeekStartDate: "2025-05-15",
		WeekEndDate:   "2025-05-21",
		Tags:          []string{"design", "portfolio"},
		Completed:     true,
		Progress:      100,
	},
}

// SeedGoals inserts goals that are not in the catalog yet. Existing rows are
// left alone.
func SeedGoals(db *gorm.DB, goals []models.WeeklyGoal) error {
	if len(goals) == 0 {
		return nil
	}
	rows := make([]models.WeeklyGoal, len(goals))
	copy(rows, goals)
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}
