package services

import (
	"context"
	"errors"
	"strings"

	"github.com/ahmetcoskunkizilkaya/studyhub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/studyhub-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/studyhub-backend/internal/storage"
	"github.com/google/uuid"
)

type NotificationService struct {
	store storage.Store
}

func NewNotificationService(store storage.Store) *NotificationService {
	return &NotificationService{store: store}
}

func (s *NotificationService) List(ctx context.Context, userID string) ([]models.Notification, error) {
	return s.store.ListNotifications(ctx, userID)
}

func (s *NotificationService) MarkRead(ctx context.Context, userID string, id uuid.UUID) (*models.Notification, error) {
	if _, err := authorizeOwned(ctx, userID, id, s.store.GetNotification, notificationOwner); err != nil {
		return nil, err
	}
	n, err := s.store.MarkNotificationRead(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNotFound
	}
	return n, err
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	return s.store.MarkAllNotificationsRead(ctx, userID)
}

// Create is the entry point for producers outside the HTTP surface, such
// as the deadline reminder stream.
func (s *NotificationService) Create(ctx context.Context, event dto.NotificationEvent) (*models.Notification, error) {
	errs := fieldErrors{}

	userID := strings.TrimSpace(event.UserID)
	if userID == "" {
		errs.add("userId", "is required")
	}
	title := strings.TrimSpace(event.Title)
	if title == "" {
		errs.add("title", "is required")
	}
	errs.maxLen("title", title, 200)
	message := strings.TrimSpace(event.Message)
	if message == "" {
		errs.add("message", "is required")
	}
	errs.maxLen("message", message, 2000)

	kind := event.Type
	if kind == "" {
		kind = models.NotificationInfo
	}
	errs.oneOf("type", kind, models.NotificationTypes)

	if err := errs.err(); err != nil {
		return nil, err
	}
	return s.store.CreateNotification(ctx, &models.Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
		Type:    kind,
	})
}
