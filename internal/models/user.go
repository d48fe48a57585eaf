package models

import (
	"time"
)

// User mirrors the identity issued by the external auth provider. ID is the
// provider subject; rows are refreshed from token claims on every request.
type User struct {
	ID        string    `gorm:"primaryKey;size:255" json:"id"`
	Email     string    `gorm:"size:255;index" json:"email"`
	Name      string    `gorm:"size:255" json:"name"`
	Image     string    `gorm:"type:text" json:"image"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}
