package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ahmetcoskunkizilkaya/studyhub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/studyhub-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/studyhub-backend/internal/storage"
)

const (
	maxStudyGoal         = 500
	maxPreferredSubjects = 20
)

type ProfileService struct {
	store storage.Store
}

func NewProfileService(store storage.Store) *ProfileService {
	return &ProfileService{store: store}
}

// Get returns the caller's profile, creating a student profile on first
// access.
func (s *ProfileService) Get(ctx context.Context, userID string) (*models.UserProfile, error) {
	return s.store.GetOrCreateProfile(ctx, userID)
}

func (s *ProfileService) Update(ctx context.Context, userID string, req dto.UpdateProfileRequest) (*models.UserProfile, error) {
	errs := fieldErrors{}
	var patch storage.ProfilePatch

	if req.StudyGoal.Set {
		patch.StudyGoal = models.Null[string]()
		if req.StudyGoal.Value != nil {
			goal := strings.TrimSpace(*req.StudyGoal.Value)
			errs.maxLen("studyGoal", goal, maxStudyGoal)
			if goal != "" {
				patch.StudyGoal = models.NewNullable(goal)
			}
		}
	}
	if req.PreferredSubjects != nil {
		subjects := make([]string, 0, len(*req.PreferredSubjects))
		for _, subj := range *req.PreferredSubjects {
			subj = strings.TrimSpace(subj)
			if subj == "" {
				continue
			}
			errs.maxLen("preferredSubjects", subj, maxSubject)
			subjects = append(subjects, subj)
		}
		if len(subjects) > maxPreferredSubjects {
			errs.add("preferredSubjects", fmt.Sprintf("must have at most %d entries", maxPreferredSubjects))
		}
		patch.PreferredSubjects = &subjects
	}
	if req.DailyStudyTarget.Set {
		if req.DailyStudyTarget.Value != nil {
			errs.intRange("dailyStudyTarget", *req.DailyStudyTarget.Value, 1, maxTaskMinutes)
		}
		patch.DailyStudyTarget = req.DailyStudyTarget
	}

	if err := errs.err(); err != nil {
		return nil, err
	}
	return s.store.UpsertProfile(ctx, userID, patch)
}

// EnsureAdmins grants the admin role to the configured bootstrap users.
func (s *ProfileService) EnsureAdmins(ctx context.Context, userIDs []string) error {
	role := models.RoleAdmin
	for _, id := range userIDs {
		if _, err := s.store.UpsertProfile(ctx, id, storage.ProfilePatch{Role: &role}); err != nil {
			return fmt.Errorf("grant admin to %s: %w", id, err)
		}
		slog.Info("admin role ensured", "user_id", id)
	}
	return nil
}
