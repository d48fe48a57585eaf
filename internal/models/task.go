package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"

	TaskPending    = "pending"
	TaskInProgress = "in_progress"
	TaskCompleted  = "completed"
)

var Priorities = map[string]bool{PriorityLow: true, PriorityMedium: true, PriorityHigh: true}

var TaskStatuses = map[string]bool{TaskPending: true, TaskInProgress: true, TaskCompleted: true}

type Task struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID           string     `gorm:"size:255;not null;index" json:"userId"`
	Title            string     `gorm:"size:500;not null" json:"title"`
	Description      *string    `gorm:"type:text" json:"description"`
	Subject          *string    `gorm:"size:200" json:"subject"`
	Priority         string     `gorm:"size:10;not null;default:'medium'" json:"priority"`
	Status           string     `gorm:"size:20;not null;default:'pending';index" json:"status"`
	DueDate          *time.Time `json:"dueDate"`
	EstimatedMinutes *int       `json:"estimatedMinutes"`
	CompletedAt      *time.Time `json:"completedAt"`
	CreatedAt        time.Time  `gorm:"index" json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

func (Task) TableName() string {
	return "tasks"
}

// TaskPatch is a partial update. Nil pointers and unset Nullable fields are
// left untouched.
type TaskPatch struct {
	Title            *string
	Description      Nullable[string]
	Subject          Nullable[string]
	Priority         *string
	Status           *string
	DueDate          Nullable[time.Time]
	EstimatedMinutes Nullable[int]
}
