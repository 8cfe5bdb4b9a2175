package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/arnold/devgrowth-api/internal/apperr"
	"github.com/arnold/devgrowth-api/internal/linker"
	"github.com/arnold/devgrowth-api/internal/models"
	"github.com/arnold/devgrowth-api/internal/repository"
)

// LogGateway is the storage contract the daily log service depends on.
type LogGateway interface {
	InsertLog(ctx context.Context, ownerID uuid.UUID, title, content string, tags []string) (*models.DailyLog, error)
	InsertAssociations(ctx context.Context, logID uuid.UUID, goalIDs []string) ([]models.DailyLogGoal, error)
	QueryLogs(ctx context.Context, ownerID uuid.UUID, q repository.LogQuery) (*repository.LogPage, error)
	TagCounts(ctx context.Context, ownerID uuid.UUID) ([]models.TagCount, error)
}

// GoalCatalog supplies candidate goals for tag matching.
type GoalCatalog interface {
	ListWeeklyGoals(ctx context.Context) ([]models.WeeklyGoal, error)
}

// Paging bounds list requests.
type Paging struct {
	DefaultLimit int
	MaxLimit     int
}

// Normalize clamps page to at least 1, replaces a non-positive limit with the
// default and caps it at the maximum.
func (p Paging) Normalize(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = p.DefaultLimit
	}
	if limit > p.MaxLimit {
		limit = p.MaxLimit
	}
	return page, limit
}

type ListQuery struct {
	Page  int
	Limit int
	Tags  []string
}

// CreateResult is the outcome of a successful creation. LinkErr is set when
// the log was saved but its goal links were not.
type CreateResult struct {
	Log         models.DailyLog
	LinkedGoals []models.DailyLogGoal
	LinkErr     *apperr.AssociationError
}

type DailyLogService struct {
	logs    LogGateway
	goals   GoalCatalog
	paging  Paging
	metrics *Metrics
	logger  *slog.Logger
}

func NewDailyLogService(logs LogGateway, goals GoalCatalog, paging Paging, metrics *Metrics, logger *slog.Logger) *DailyLogService {
	return &DailyLogService{logs: logs, goals: goals, paging: paging, metrics: metrics, logger: logger}
}

// Create saves a log and then, best effort, its goal links. The log counts as
// created once the first write succeeds; a failed link write only shrinks
// LinkedGoals.
func (s *DailyLogService) Create(ctx context.Context, ownerID uuid.UUID, req models.CreateDailyLogRequest) (*CreateResult, error) {
	if ownerID == uuid.Nil {
		return nil, &apperr.AuthError{Reason: "missing owner"}
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Content) == "" {
		field := "title"
		if strings.TrimSpace(req.Title) != "" {
			field = "content"
		}
		return nil, apperr.Validation(field, "Title and content are required")
	}

	tags := linker.NormalizeTags(req.Tags)
	log, err := s.logs.InsertLog(ctx, ownerID, req.Title, req.Content, tags)
	if err != nil {
		var ve *apperr.ValidationError
		if errors.As(err, &ve) {
			return nil, ve
		}
		return nil, s.storageFailure(ctx, "insert daily log", err)
	}
	s.metrics.LogsCreated.Inc()

	res := &CreateResult{Log: *log, LinkedGoals: []models.DailyLogGoal{}}

	goalIDs := req.LinkedGoalIDs
	if goalIDs == nil {
		goalIDs = s.deriveGoalIDs(ctx, tags)
	}
	if len(goalIDs) > 0 {
		rows, err := s.logs.InsertAssociations(ctx, log.ID, goalIDs)
		if err != nil {
			res.LinkErr = s.linkFailure(ctx, log.ID, goalIDs, err)
		} else {
			res.LinkedGoals = rows
			s.metrics.AssociationsWritten.Add(float64(len(rows)))
		}
	}

	res.Log.AutoLinkedGoals = lo.Map(res.LinkedGoals, func(a models.DailyLogGoal, _ int) string { return a.GoalID })
	s.logger.InfoContext(ctx, "daily log created",
		slog.String("log_id", log.ID.String()),
		slog.String("owner_id", ownerID.String()),
		slog.Int("tags", len(tags)),
		slog.Int("links_requested", len(goalIDs)),
		slog.Int("links_written", len(res.LinkedGoals)))
	return res, nil
}

// deriveGoalIDs matches tags against the goal catalog. A catalog read failure
// leaves the log unlinked rather than failing the creation.
func (s *DailyLogService) deriveGoalIDs(ctx context.Context, tags []string) []string {
	if len(tags) == 0 {
		return []string{}
	}
	goals, err := s.goals.ListWeeklyGoals(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "goal catalog unavailable, skipping auto-link", slog.String("error", err.Error()))
		return []string{}
	}
	return linker.GoalIDs(linker.MatchGoals(tags, goals))
}

func (s *DailyLogService) linkFailure(ctx context.Context, logID uuid.UUID, goalIDs []string, err error) *apperr.AssociationError {
	s.metrics.AssociationFailures.Inc()
	var ae *apperr.AssociationError
	if !errors.As(err, &ae) {
		ae = &apperr.AssociationError{LogID: logID, GoalIDs: goalIDs, Err: err}
	}
	s.logger.WarnContext(ctx, "log saved but goal links were not",
		slog.String("log_id", logID.String()),
		slog.Any("goal_ids", goalIDs),
		slog.String("error", ae.Error()))
	return ae
}

func (s *DailyLogService) storageFailure(ctx context.Context, op string, err error) error {
	var se *apperr.StorageError
	if !errors.As(err, &se) {
		se = apperr.Storage(op, err)
	}
	s.metrics.StorageFailures.WithLabelValues(se.Op).Inc()
	s.logger.ErrorContext(ctx, "storage failure", slog.String("op", se.Op), slog.String("error", se.Error()))
	return se
}

// List returns one page of ownerID's logs filtered by tags with AND
// semantics, with autoLinkedGoals filled from stored links.
func (s *DailyLogService) List(ctx context.Context, ownerID uuid.UUID, q ListQuery) (*models.DailyLogsResponse, error) {
	if ownerID == uuid.Nil {
		return nil, &apperr.AuthError{Reason: "missing owner"}
	}
	page, limit := s.paging.Normalize(q.Page, q.Limit)

	start := time.Now()
	res, err := s.logs.QueryLogs(ctx, ownerID, repository.LogQuery{
		Page:  page,
		Limit: limit,
		Tags:  linker.NormalizeTags(q.Tags),
	})
	s.metrics.QueryDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, s.storageFailure(ctx, "query daily logs", err)
	}

	return &models.DailyLogsResponse{
		Logs:  res.Logs,
		Total: res.Total,
		Page:  page,
		Limit: limit,
	}, nil
}

// Tags lists ownerID's tag vocabulary with usage counts.
func (s *DailyLogService) Tags(ctx context.Context, ownerID uuid.UUID) ([]models.TagCount, error) {
	if ownerID == uuid.Nil {
		return nil, &apperr.AuthError{Reason: "missing owner"}
	}
	counts, err := s.logs.TagCounts(ctx, ownerID)
	if err != nil {
		return nil, s.storageFailure(ctx, "count tags", err)
	}
	return counts, nil
}
