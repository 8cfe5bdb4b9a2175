package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DailyLogGoal links a daily log to a goal it shares tags with. The goal side
// is a plain reference: goals come from an external catalog, so there is no
// foreign key on GoalID and duplicates of the same pair are tolerated.
type DailyLogGoal struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	DailyLogID uuid.UUID `json:"logId" gorm:"type:uuid;index;not null"`
	GoalID     string    `json:"goalId" gorm:"not null"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (a *DailyLogGoal) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		a.ID = id
	}
	return nil
}
