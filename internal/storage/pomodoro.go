package storage

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/studyhub-backend/internal/models"
)

func (s *GormStore) ListSessions(ctx context.Context, userID string) ([]models.PomodoroSession, error) {
	var sessions []models.PomodoroSession
	err := s.db.WithContext(ctx).Scopes(ForUser(userID)).Order("started_at DESC").Find(&sessions).Error
	return sessions, err
}

func (s *GormStore) CreateSession(ctx context.Context, session *models.PomodoroSession) (*models.PomodoroSession, error) {
	if err := s.db.WithContext(ctx).Create(session).Error; err != nil {
		return nil, err
	}
	return session, nil
}
