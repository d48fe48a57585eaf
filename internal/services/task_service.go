package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/studyhub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/studyhub-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/studyhub-backend/internal/storage"
	"github.com/google/uuid"
)

const (
	maxTaskTitle       = 500
	maxTaskDescription = 5000
	maxSubject         = 200
	maxTaskMinutes     = 1440
)

type TaskService struct {
	store storage.Store
}

func NewTaskService(store storage.Store) *TaskService {
	return &TaskService{store: store}
}

func (s *TaskService) List(ctx context.Context, userID string) ([]models.Task, error) {
	return s.store.ListTasks(ctx, userID)
}

func (s *TaskService) Get(ctx context.Context, userID string, id uuid.UUID) (*models.Task, error) {
	return authorizeOwned(ctx, userID, id, s.store.GetTask, taskOwner)
}

func (s *TaskService) Create(ctx context.Context, userID string, req dto.CreateTaskRequest) (*models.Task, error) {
	errs := fieldErrors{}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		errs.add("title", "is required")
	}
	errs.maxLen("title", title, maxTaskTitle)

	task := &models.Task{
		UserID:   userID,
		Title:    title,
		Priority: models.PriorityMedium,
		Status:   models.TaskPending,
	}

	if req.Description != nil {
		errs.maxLen("description", *req.Description, maxTaskDescription)
		task.Description = req.Description
	}
	if req.Subject != nil {
		subject := strings.TrimSpace(*req.Subject)
		errs.maxLen("subject", subject, maxSubject)
		if subject != "" {
			task.Subject = &subject
		}
	}
	if req.Priority != "" {
		errs.oneOf("priority", req.Priority, models.Priorities)
		task.Priority = req.Priority
	}
	if req.Status != "" {
		errs.oneOf("status", req.Status, models.TaskStatuses)
		task.Status = req.Status
	}
	if req.DueDate != nil && strings.TrimSpace(*req.DueDate) != "" {
		due, err := parseDate(*req.DueDate)
		if err != nil {
			errs.add("dueDate", "must be YYYY-MM-DD or RFC 3339")
		} else {
			task.DueDate = &due
		}
	}
	if req.EstimatedMinutes != nil {
		errs.intRange("estimatedMinutes", *req.EstimatedMinutes, 1, maxTaskMinutes)
		task.EstimatedMinutes = req.EstimatedMinutes
	}

	if err := errs.err(); err != nil {
		return nil, err
	}
	return s.store.CreateTask(ctx, task)
}

func (s *TaskService) Update(ctx context.Context, userID string, id uuid.UUID, req dto.UpdateTaskRequest) (*models.Task, error) {
	if _, err := authorizeOwned(ctx, userID, id, s.store.GetTask, taskOwner); err != nil {
		return nil, err
	}

	errs := fieldErrors{}
	var patch models.TaskPatch

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			errs.add("title", "must not be empty")
		}
		errs.maxLen("title", title, maxTaskTitle)
		patch.Title = &title
	}
	if req.Description.Set {
		if req.Description.Value != nil {
			errs.maxLen("description", *req.Description.Value, maxTaskDescription)
		}
		patch.Description = req.Description
	}
	if req.Subject.Set {
		patch.Subject = models.Null[string]()
		if req.Subject.Value != nil {
			subject := strings.TrimSpace(*req.Subject.Value)
			errs.maxLen("subject", subject, maxSubject)
			if subject != "" {
				patch.Subject = models.NewNullable(subject)
			}
		}
	}
	if req.Priority != nil {
		errs.oneOf("priority", *req.Priority, models.Priorities)
		patch.Priority = req.Priority
	}
	if req.Status != nil {
		errs.oneOf("status", *req.Status, models.TaskStatuses)
		patch.Status = req.Status
	}
	if req.DueDate.Set {
		patch.DueDate = models.Null[time.Time]()
		if req.DueDate.Value != nil && strings.TrimSpace(*req.DueDate.Value) != "" {
			due, err := parseDate(*req.DueDate.Value)
			if err != nil {
				errs.add("dueDate", "must be YYYY-MM-DD or RFC 3339")
			} else {
				patch.DueDate = models.NewNullable(due)
			}
		}
	}
	if req.EstimatedMinutes.Set {
		if req.EstimatedMinutes.Value != nil {
			errs.intRange("estimatedMinutes", *req.EstimatedMinutes.Value, 1, maxTaskMinutes)
		}
		patch.EstimatedMinutes = req.EstimatedMinutes
	}

	if err := errs.err(); err != nil {
		return nil, err
	}

	task, err := s.store.UpdateTask(ctx, id, patch)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNotFound
	}
	return task, err
}

func (s *TaskService) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	if _, err := authorizeOwned(ctx, userID, id, s.store.GetTask, taskOwner); err != nil {
		return err
	}
	if err := s.store.DeleteTask(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
