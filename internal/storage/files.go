package storage

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/studyhub-backend/internal/models"
	"github.com/google/uuid"
)

func (s *GormStore) ListFiles(ctx context.Context, userID string) ([]models.FileUpload, error) {
	var files []models.FileUpload
	err := s.db.WithContext(ctx).Scopes(ForUser(userID), newestFirst).Find(&files).Error
	return files, err
}

func (s *GormStore) GetFile(ctx context.Context, id uuid.UUID) (*models.FileUpload, error) {
	return first[models.FileUpload](ctx, s.db, id)
}

func (s *GormStore) CreateFile(ctx context.Context, file *models.FileUpload) (*models.FileUpload, error) {
	if err := s.db.WithContext(ctx).Create(file).Error; err != nil {
		return nil, err
	}
	return file, nil
}

func (s *GormStore) DeleteFile(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.FileUpload{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
