package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

var Roles = map[string]bool{RoleStudent: true, RoleAdmin: true}

type UserProfile struct {
	ID                uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	UserID            string                      `gorm:"size:255;not null;uniqueIndex" json:"userId"`
	Role              string                      `gorm:"size:20;not null;default:'student'" json:"role"`
	StudyGoal         *string                     `gorm:"size:500" json:"studyGoal"`
	PreferredSubjects datatypes.JSONSlice[string] `json:"preferredSubjects"`
	DailyStudyTarget  *int                        `json:"dailyStudyTarget"`
	CreatedAt         time.Time                   `json:"createdAt"`
	UpdatedAt         time.Time                   `json:"updatedAt"`
}

func (p *UserProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Role == "" {
		p.Role = RoleStudent
	}
	if p.PreferredSubjects == nil {
		p.PreferredSubjects = datatypes.JSONSlice[string]{}
	}
	return nil
}

func (UserProfile) TableName() string {
	return "user_profiles"
}
