package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DailyLog struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	OwnerID   uuid.UUID `json:"ownerId" gorm:"type:uuid;index:idx_daily_logs_owner_created,priority:1;not null"`
	Title     string    `json:"title" gorm:"not null"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	Tags      []string  `json:"tags" gorm:"serializer:json;type:text"`
	CreatedAt time.Time `json:"createdAt" gorm:"index:idx_daily_logs_owner_created,priority:2"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Derived from Associations on every read, never stored on the row.
	AutoLinkedGoals []string       `json:"autoLinkedGoals" gorm:"-"`
	Associations    []DailyLogGoal `json:"-" gorm:"foreignKey:DailyLogID"`
}

// BeforeCreate assigns a time-ordered id so that id order matches insertion
// order for logs created within the same clock tick.
func (l *DailyLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		l.ID = id
	}
	return nil
}

// DailyLogTag is the per-tag index row used for AND filtering.
type DailyLogTag struct {
	DailyLogID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Tag        string    `gorm:"primaryKey;index"`
}

type TagCount struct {
	Tag   string `json:"tag"`
	Count int64  `json:"count"`
}

// Daily log DTOs
type CreateDailyLogRequest struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
	// nil asks the server to derive links from the goal catalog; an empty
	// slice means "link nothing".
	LinkedGoalIDs []string `json:"linkedGoalIds"`
}

type CreateDailyLogResponse struct {
	DailyLog    DailyLog       `json:"dailyLog"`
	LinkedGoals []DailyLogGoal `json:"linkedGoals"`
	Warning     string         `json:"warning,omitempty"`
}

type DailyLogsResponse struct {
	Logs  []DailyLog `json:"logs"`
	Total int64      `json:"total"`
	Page  int        `json:"page"`
	Limit int        `json:"limit"`
}
