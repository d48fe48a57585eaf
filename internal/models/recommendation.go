package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RecommendationStudyTip = "study_tip"
	RecommendationFocus    = "focus"
	RecommendationReview   = "review"
	RecommendationSchedule = "schedule"
)

var RecommendationTypes = map[string]bool{
	RecommendationStudyTip: true,
	RecommendationFocus:    true,
	RecommendationReview:   true,
	RecommendationSchedule: true,
}

type StudyRecommendation struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      string    `gorm:"size:255;not null;index" json:"userId"`
	Title       string    `gorm:"size:60;not null" json:"title"`
	Description string    `gorm:"size:200;not null" json:"description"`
	Subject     *string   `gorm:"size:200" json:"subject"`
	Type        string    `gorm:"size:20;not null" json:"type"`
	Priority    string    `gorm:"size:10;not null;default:'medium'" json:"priority"`
	Dismissed   bool      `gorm:"not null;default:false" json:"dismissed"`
	CreatedAt   time.Time `gorm:"index" json:"createdAt"`
}

func (r *StudyRecommendation) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

func (StudyRecommendation) TableName() string {
	return "study_recommendations"
}
