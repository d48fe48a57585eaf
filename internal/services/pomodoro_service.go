package services

import (
	"context"
	"time"

	"github.com/ahmetcoskunkizilkaya/studyhub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/studyhub-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/studyhub-backend/internal/storage"
)

type PomodoroService struct {
	store storage.Store
}

func NewPomodoroService(store storage.Store) *PomodoroService {
	return &PomodoroService{store: store}
}

func (s *PomodoroService) List(ctx context.Context, userID string) ([]models.PomodoroSession, error) {
	return s.store.ListSessions(ctx, userID)
}

// Create records a finished or aborted session. The timer itself runs on
// the client.
func (s *PomodoroService) Create(ctx context.Context, userID string, req dto.CreatePomodoroRequest) (*models.PomodoroSession, error) {
	errs := fieldErrors{}
	if req.Duration == nil {
		errs.add("duration", "is required")
	} else {
		errs.intRange("duration", *req.Duration, 1, 120)
	}
	if req.BreakDuration == nil {
		errs.add("breakDuration", "is required")
	} else {
		errs.intRange("breakDuration", *req.BreakDuration, 1, 60)
	}
	if req.Completed == nil {
		errs.add("completed", "is required")
	}
	if err := errs.err(); err != nil {
		return nil, err
	}

	taskID, err := referencedTask(ctx, s.store, userID, req.TaskID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	session := &models.PomodoroSession{
		UserID:        userID,
		TaskID:        taskID,
		Duration:      *req.Duration,
		BreakDuration: *req.BreakDuration,
		Completed:     *req.Completed,
		StartedAt:     now,
	}
	if session.Completed {
		session.EndedAt = &now
	}
	return s.store.CreateSession(ctx, session)
}
