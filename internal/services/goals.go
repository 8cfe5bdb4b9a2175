package services

import (
	"context"
	"log/slog"

	"github.com/samber/lo"

	"github.com/arnold/devgrowth-api/internal/linker"
	"github.com/arnold/devgrowth-api/internal/models"
)

type GoalService struct {
	catalog GoalCatalog
	logger  *slog.Logger
}

func NewGoalService(catalog GoalCatalog, logger *slog.Logger) *GoalService {
	return &GoalService{catalog: catalog, logger: logger}
}

func (s *GoalService) List(ctx context.Context) ([]models.WeeklyGoal, error) {
	goals, err := s.catalog.ListWeeklyGoals(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "list weekly goals", slog.String("error", err.Error()))
		return nil, err
	}
	return goals, nil
}

// PreviewLinks reports which catalog goals a log with these tags would be
// linked to, and through which tags. Nothing is written.
func (s *GoalService) PreviewLinks(ctx context.Context, tags []string) ([]models.LinkedGoalPreview, error) {
	goals, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	tags = linker.NormalizeTags(tags)
	return lo.Map(linker.MatchGoals(tags, goals), func(g models.WeeklyGoal, _ int) models.LinkedGoalPreview {
		return models.LinkedGoalPreview{Goal: g, MatchedTags: linker.SharedTags(tags, g.Tags)}
	}), nil
}
