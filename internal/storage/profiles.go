package storage

import (
	"context"
	"errors"

	"github.com/ahmetcoskunkizilkaya/studyhub-backend/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProfilePatch carries the profile fields to merge. Nil pointers and unset
// Nullable fields are left as they are.
type ProfilePatch struct {
	Role              *string
	StudyGoal         models.Nullable[string]
	PreferredSubjects *[]string
	DailyStudyTarget  models.Nullable[int]
}

func (s *GormStore) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// GetOrCreateProfile relies on the unique index on user_id: concurrent
// first visits both insert with DO NOTHING and read back the same row.
func (s *GormStore) GetOrCreateProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fresh := models.UserProfile{UserID: userID, Role: models.RoleStudent}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).Create(&fresh).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ?", userID).First(&profile).Error
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (s *GormStore) UpsertProfile(ctx context.Context, userID string, patch ProfilePatch) (*models.UserProfile, error) {
	updates := map[string]interface{}{}
	if patch.Role != nil {
		updates["role"] = *patch.Role
	}
	if patch.StudyGoal.Set {
		updates["study_goal"] = patch.StudyGoal.Value
	}
	if patch.PreferredSubjects != nil {
		updates["preferred_subjects"] = datatypes.JSONSlice[string](*patch.PreferredSubjects)
	}
	if patch.DailyStudyTarget.Set {
		updates["daily_study_target"] = patch.DailyStudyTarget.Value
	}

	var profile models.UserProfile
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fresh := models.UserProfile{UserID: userID, Role: models.RoleStudent}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).Create(&fresh).Error; err != nil {
			return err
		}
		if len(updates) > 0 {
			if err := tx.Model(&models.UserProfile{}).Where("user_id = ?", userID).Updates(updates).Error; err != nil {
				return err
			}
		}
		return tx.Where("user_id = ?", userID).First(&profile).Error
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}
