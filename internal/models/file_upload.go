package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FileUpload is the metadata row for a stored blob. Filename is the
// generated storage key; OriginalName is display-only.
type FileUpload struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       string     `gorm:"size:255;not null;index" json:"userId"`
	Filename     string     `gorm:"size:255;not null;uniqueIndex" json:"filename"`
	OriginalName string     `gorm:"size:255;not null" json:"originalName"`
	MimeType     string     `gorm:"size:150;not null" json:"mimeType"`
	Size         int64      `gorm:"not null" json:"size"`
	TaskID       *uuid.UUID `gorm:"type:uuid;index" json:"taskId"`
	CreatedAt    time.Time  `gorm:"index" json:"createdAt"`
}

func (f *FileUpload) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

func (FileUpload) TableName() string {
	return "file_uploads"
}
