package services

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/studyhub-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/studyhub-backend/internal/storage"
)

type AdminStats struct {
	storage.PlatformTotals
	UserActivity []storage.UserActivity `json:"userActivity"`
}

type AdminService struct {
	store storage.Store
}

func NewAdminService(store storage.Store) *AdminService {
	return &AdminService{store: store}
}

func (s *AdminService) Stats(ctx context.Context) (*AdminStats, error) {
	totals, err := s.store.PlatformTotals(ctx)
	if err != nil {
		return nil, err
	}
	activity, err := s.store.UserActivity(ctx)
	if err != nil {
		return nil, err
	}
	if activity == nil {
		activity = []storage.UserActivity{}
	}
	return &AdminStats{PlatformTotals: *totals, UserActivity: activity}, nil
}

func (s *AdminService) Users(ctx context.Context) ([]storage.UserWithRole, error) {
	users, err := s.store.ListUsersWithRoles(ctx)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []storage.UserWithRole{}
	}
	return users, nil
}

// UpdateRole sets a user's role, creating the profile if it does not exist.
func (s *AdminService) UpdateRole(ctx context.Context, targetUserID, role string) (*models.UserProfile, error) {
	errs := fieldErrors{}
	if targetUserID == "" {
		errs.add("userId", "is required")
	}
	errs.oneOf("role", role, models.Roles)
	if err := errs.err(); err != nil {
		return nil, err
	}
	return s.store.UpsertProfile(ctx, targetUserID, storage.ProfilePatch{Role: &role})
}
