package storage

import (
	"context"
	"time"

	"github.com/ahmetcoskunkizilkaya/studyhub-backend/internal/models"
	"gorm.io/gorm/clause"
)

// UserWithRole is a user row merged with the role from its profile.
type UserWithRole struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Image     string    `json:"image"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func (s *GormStore) UpsertUser(ctx context.Context, user *models.User) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"email", "name", "image", "updated_at"}),
	}).Create(user).Error
}

func (s *GormStore) ListUsersWithRoles(ctx context.Context) ([]UserWithRole, error) {
	var rows []UserWithRole
	err := s.db.WithContext(ctx).
		Table("users").
		Select("users.id, users.email, users.name, users.image, users.created_at, COALESCE(user_profiles.role, ?) AS role", models.RoleStudent).
		Joins("LEFT JOIN user_profiles ON user_profiles.user_id = users.id").
		Order("users.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
