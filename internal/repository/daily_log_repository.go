package repository

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"gorm.io/gorm"

	"github.com/arnold/devgrowth-api/internal/apperr"
	"github.com/arnold/devgrowth-api/internal/linker"
	"github.com/arnold/devgrowth-api/internal/models"
)

// LogQuery selects one page of an owner's logs. Page is 1-based.
type LogQuery struct {
	Page  int
	Limit int
	Tags  []string
}

type LogPage struct {
	Logs  []models.DailyLog
	Total int64
}

// DailyLogRepository persists daily logs, their tag index and their goal
// associations.
type DailyLogRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewDailyLogRepository(db *gorm.DB) *DailyLogRepository {
	return &DailyLogRepository{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// InsertLog writes the log row and its tag index in one transaction.
func (r *DailyLogRepository) InsertLog(ctx context.Context, ownerID uuid.UUID, title, content string, tags []string) (*models.DailyLog, error) {
	if strings.TrimSpace(title) == "" {
		return nil, apperr.Validation("title", "Title is required")
	}
	if strings.TrimSpace(content) == "" {
		return nil, apperr.Validation("content", "Content is required")
	}

	now := r.now()
	log := models.DailyLog{
		OwnerID:   ownerID,
		Title:     title,
		Content:   content,
		Tags:      linker.NormalizeTags(tags),
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&log).Error; err != nil {
			return err
		}
		if len(log.Tags) == 0 {
			return nil
		}
		rows := lo.Map(log.Tags, func(tag string, _ int) models.DailyLogTag {
			return models.DailyLogTag{DailyLogID: log.ID, Tag: tag}
		})
		return tx.Create(&rows).Error
	})
	if err != nil {
		return nil, apperr.Storage("insert daily log", err)
	}

	log.AutoLinkedGoals = []string{}
	return &log, nil
}

// InsertAssociations links logID to every goal id in one batch, so either all
// rows land or none do. The same goal id may appear more than once.
func (r *DailyLogRepository) InsertAssociations(ctx context.Context, logID uuid.UUID, goalIDs []string) ([]models.DailyLogGoal, error) {
	if len(goalIDs) == 0 {
		return []models.DailyLogGoal{}, nil
	}

	now := r.now()
	rows := lo.Map(goalIDs, func(goalID string, _ int) models.DailyLogGoal {
		return models.DailyLogGoal{DailyLogID: logID, GoalID: goalID, CreatedAt: now}
	})
	if err := r.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, &apperr.AssociationError{LogID: logID, GoalIDs: goalIDs, Err: err}
	}
	return rows, nil
}

// QueryLogs returns one page of ownerID's logs, newest first, restricted to
// logs carrying every tag in q.Tags. Ties on creation time fall back to id
// order, which follows insertion order.
func (r *DailyLogRepository) QueryLogs(ctx context.Context, ownerID uuid.UUID, q LogQuery) (*LogPage, error) {
	page := max(q.Page, 1)
	limit := max(q.Limit, 1)
	filter := r.ownedWithTags(ownerID, linker.NormalizeTags(q.Tags))

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.DailyLog{}).Scopes(filter).Count(&total).Error; err != nil {
		return nil, apperr.Storage("count daily logs", err)
	}
	// No stored page can start past the largest representable offset.
	if page-1 > math.MaxInt/limit {
		return &LogPage{Logs: []models.DailyLog{}, Total: total}, nil
	}

	var logs []models.DailyLog
	err := r.db.WithContext(ctx).
		Scopes(filter).
		Preload("Associations", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC").Order("id ASC")
		}).
		Order("created_at DESC").
		Order("id DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		return nil, apperr.Storage("query daily logs", err)
	}

	for i := range logs {
		logs[i].AutoLinkedGoals = lo.Map(logs[i].Associations, func(a models.DailyLogGoal, _ int) string {
			return a.GoalID
		})
		if logs[i].Tags == nil {
			logs[i].Tags = []string{}
		}
	}
	if logs == nil {
		logs = []models.DailyLog{}
	}

	return &LogPage{Logs: logs, Total: total}, nil
}

func (r *DailyLogRepository) ownedWithTags(ownerID uuid.UUID, tags []string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Where("owner_id = ?", ownerID)
		if len(tags) == 0 {
			return db
		}
		// A log qualifies when it has an index row for each requested tag.
		withAll := r.db.Model(&models.DailyLogTag{}).
			Select("daily_log_id").
			Where("tag IN ?", tags).
			Group("daily_log_id").
			Having("COUNT(DISTINCT tag) = ?", len(tags))
		return db.Where("id IN (?)", withAll)
	}
}

// TagCounts lists the distinct tags ownerID has used, most used first.
func (r *DailyLogRepository) TagCounts(ctx context.Context, ownerID uuid.UUID) ([]models.TagCount, error) {
	var counts []models.TagCount
	err := r.db.WithContext(ctx).
		Model(&models.DailyLogTag{}).
		Select("daily_log_tags.tag AS tag, COUNT(*) AS count").
		Joins("JOIN daily_logs ON daily_logs.id = daily_log_tags.daily_log_id").
		Where("daily_logs.owner_id = ?", ownerID).
		Group("daily_log_tags.tag").
		Order("COUNT(*) DESC").
		Order("daily_log_tags.tag ASC").
		Scan(&counts).Error
	if err != nil {
		return nil, apperr.Storage("count tags", err)
	}
	if counts == nil {
		counts = []models.TagCount{}
	}
	return counts, nil
}
