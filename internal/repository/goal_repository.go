package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/arnold/devgrowth-api/internal/apperr"
	"github.com/arnold/devgrowth-api/internal/models"
)

// GoalRepository reads the weekly goal catalog.
type GoalRepository struct {
	db *gorm.DB
}

func NewGoalRepository(db *gorm.DB) *GoalRepository {
	return &GoalRepository{db: db}
}

func (r *GoalRepository) ListWeeklyGoals(ctx context.Context) ([]models.WeeklyGoal, error) {
	var goals []models.WeeklyGoal
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&goals).Error; err != nil {
		return nil, apperr.Storage("list weekly goals", err)
	}
	if goals == nil {
		goals = []models.WeeklyGoal{}
	}
	return goals, nil
}
