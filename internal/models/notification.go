package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	NotificationInfo        = "info"
	NotificationWarning     = "warning"
	NotificationDeadline    = "deadline"
	NotificationAchievement = "achievement"
)

var NotificationTypes = map[string]bool{
	NotificationInfo:        true,
	NotificationWarning:     true,
	NotificationDeadline:    true,
	NotificationAchievement: true,
}

type Notification struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string    `gorm:"size:255;not null;index" json:"userId"`
	Title     string    `gorm:"size:200;not null" json:"title"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Type      string    `gorm:"size:20;not null;default:'info'" json:"type"`
	Read      bool      `gorm:"not null;default:false" json:"read"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

func (Notification) TableName() string {
	return "notifications"
}
