package storage

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/studyhub-backend/internal/models"
	"github.com/google/uuid"
)

func (s *GormStore) ListNotifications(ctx context.Context, userID string) ([]models.Notification, error) {
	var notifications []models.Notification
	err := s.db.WithContext(ctx).Scopes(ForUser(userID), newestFirst).Find(&notifications).Error
	return notifications, err
}

func (s *GormStore) GetNotification(ctx context.Context, id uuid.UUID) (*models.Notification, error) {
	return first[models.Notification](ctx, s.db, id)
}

func (s *GormStore) CreateNotification(ctx context.Context, n *models.Notification) (*models.Notification, error) {
	if err := s.db.WithContext(ctx).Create(n).Error; err != nil {
		return nil, err
	}
	return n, nil
}

func (s *GormStore) MarkNotificationRead(ctx context.Context, id uuid.UUID) (*models.Notification, error) {
	result := s.db.WithContext(ctx).Model(&models.Notification{}).Where("id = ?", id).Update("read", true)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.GetNotification(ctx, id)
}

func (s *GormStore) MarkAllNotificationsRead(ctx context.Context, userID string) (int64, error) {
	result := s.db.WithContext(ctx).Model(&models.Notification{}).
		Scopes(ForUser(userID)).
		Where("read = ?", false).
		Update("read", true)
	return result.RowsAffected, result.Error
}
