package models

import "time"

type GoalCategory string

const (
	CategoryLearning      GoalCategory = "learning"
	CategoryProject       GoalCategory = "project"
	CategoryCareer        GoalCategory = "career"
	CategorySkill         GoalCategory = "skill"
	CategoryCommunity     GoalCategory = "community"
	CategoryCertification GoalCategory = "certification"
)

func (c GoalCategory) Valid() bool {
	switch c {
	case CategoryLearning, CategoryProject, CategoryCareer, CategorySkill, CategoryCommunity, CategoryCertification:
		return true
	}
	return false
}

// WeeklyGoal is catalog data. This service only reads goal tag sets.
type WeeklyGoal struct {
	ID            string       `json:"id" gorm:"primaryKey"`
	Title         string       `json:"title" gorm:"not null"`
	Category      GoalCategory `json:"category" gorm:"not null"`
	WeekStartDate string       `json:"weekStartDate"`
	WeekEndDate   string       `json:"weekEndDate"`
	Tags          []string     `json:"tags" gorm:"serializer:json;type:text"`
	Completed     bool         `json:"completed" gorm:"default:false"`
	Progress      int          `json:"progress" gorm:"default:0"` // 0-100
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
}

// Link preview DTOs
type LinkPreviewRequest struct {
	Tags []string `json:"tags"`
}

type LinkedGoalPreview struct {
	Goal        WeeklyGoal `json:"goal"`
	MatchedTags []string   `json:"matchedTags"`
}

type LinkPreviewResponse struct {
	Goals []LinkedGoalPreview `json:"goals"`
}
