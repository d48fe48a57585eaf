package services

import (
	"context"
	"errors"

	"github.com/ahmetcoskunkizilkaya/studyhub-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/studyhub-backend/internal/storage"
	"github.com/google/uuid"
)

// Authorizer answers role questions. A user without a profile holds no
// elevated role.
type Authorizer struct {
	store storage.Store
}

func NewAuthorizer(store storage.Store) *Authorizer {
	return &Authorizer{store: store}
}

func (a *Authorizer) RequireRole(ctx context.Context, userID, role string) error {
	profile, err := a.store.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			if role == models.RoleStudent {
				return nil
			}
			return ErrForbidden
		}
		return err
	}
	if profile.Role != role {
		return ErrForbidden
	}
	return nil
}

// authorizeOwned loads a row and confirms the caller owns it. Missing rows
// are ErrNotFound and foreign rows are ErrForbidden.
func authorizeOwned[T any](
	ctx context.Context,
	userID string,
	id uuid.UUID,
	load func(context.Context, uuid.UUID) (*T, error),
	owner func(*T) string,
) (*T, error) {
	row, err := load(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if owner(row) != userID {
		return nil, ErrForbidden
	}
	return row, nil
}

func taskOwner(t *models.Task) string { return t.UserID }

func recommendationOwner(r *models.StudyRecommendation) string { return r.UserID }

func fileOwner(f *models.FileUpload) string { return f.UserID }

func notificationOwner(n *models.Notification) string { return n.UserID }

// referencedTask resolves an optional taskId on another entity. The task
// must exist and belong to the caller; anything else is ErrForbidden.
func referencedTask(ctx context.Context, store storage.Store, userID string, raw *string) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := ParseID("taskId", *raw)
	if err != nil {
		return nil, err
	}
	if _, err := authorizeOwned(ctx, userID, id, store.GetTask, taskOwner); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrForbidden
		}
		return nil, err
	}
	return &id, nil
}
