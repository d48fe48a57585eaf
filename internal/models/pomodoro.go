package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PomodoroSession struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        string     `gorm:"size:255;not null;index" json:"userId"`
	TaskID        *uuid.UUID `gorm:"type:uuid;index" json:"taskId"`
	Duration      int        `gorm:"not null" json:"duration"`
	BreakDuration int        `gorm:"not null" json:"breakDuration"`
	Completed     bool       `gorm:"not null;default:false" json:"completed"`
	StartedAt     time.Time  `gorm:"not null;index" json:"startedAt"`
	EndedAt       *time.Time `json:"endedAt"`
}

func (s *PomodoroSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

func (PomodoroSession) TableName() string {
	return "pomodoro_sessions"
}
