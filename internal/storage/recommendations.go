package storage

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/studyhub-backend/internal/models"
	"github.com/google/uuid"
)

func (s *GormStore) ListRecommendations(ctx context.Context, userID string) ([]models.StudyRecommendation, error) {
	var recs []models.StudyRecommendation
	err := s.db.WithContext(ctx).Scopes(ForUser(userID), newestFirst).Find(&recs).Error
	return recs, err
}

func (s *GormStore) GetRecommendation(ctx context.Context, id uuid.UUID) (*models.StudyRecommendation, error) {
	return first[models.StudyRecommendation](ctx, s.db, id)
}

func (s *GormStore) CreateRecommendations(ctx context.Context, recs []models.StudyRecommendation) ([]models.StudyRecommendation, error) {
	if len(recs) == 0 {
		return []models.StudyRecommendation{}, nil
	}
	if err := s.db.WithContext(ctx).Create(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}

// DismissRecommendation only ever sets dismissed to true.
func (s *GormStore) DismissRecommendation(ctx context.Context, id uuid.UUID) (*models.StudyRecommendation, error) {
	result := s.db.WithContext(ctx).Model(&models.StudyRecommendation{}).Where("id = ?", id).Update("dismissed", true)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.GetRecommendation(ctx, id)
}
