package storage

import (
	"context"
	"time"

	"github.com/ahmetcoskunkizilkaya/studyhub-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func (s *GormStore) ListTasks(ctx context.Context, userID string) ([]models.Task, error) {
	var tasks []models.Task
	err := s.db.WithContext(ctx).Scopes(ForUser(userID), newestFirst).Find(&tasks).Error
	return tasks, err
}

func (s *GormStore) GetTask(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	return first[models.Task](ctx, s.db, id)
}

func (s *GormStore) CreateTask(ctx context.Context, task *models.Task) (*models.Task, error) {
	if task.Status == models.TaskCompleted && task.CompletedAt == nil {
		now := time.Now().UTC()
		task.CompletedAt = &now
	}
	if err := s.db.WithContext(ctx).Create(task).Error; err != nil {
		return nil, err
	}
	return task, nil
}

// UpdateTask applies the patch in a single UPDATE. Setting status to
// completed stamps completed_at; any other status clears it.
func (s *GormStore) UpdateTask(ctx context.Context, id uuid.UUID, patch models.TaskPatch) (*models.Task, error) {
	updates := map[string]interface{}{}
	if patch.Title != nil {
		updates["title"] = *patch.Title
	}
	if patch.Description.Set {
		updates["description"] = patch.Description.Value
	}
	if patch.Subject.Set {
		updates["subject"] = patch.Subject.Value
	}
	if patch.Priority != nil {
		updates["priority"] = *patch.Priority
	}
	if patch.Status != nil {
		updates["status"] = *patch.Status
		if *patch.Status == models.TaskCompleted {
			updates["completed_at"] = time.Now().UTC()
		} else {
			updates["completed_at"] = nil
		}
	}
	if patch.DueDate.Set {
		updates["due_date"] = patch.DueDate.Value
	}
	if patch.EstimatedMinutes.Set {
		updates["estimated_minutes"] = patch.EstimatedMinutes.Value
	}

	if len(updates) > 0 {
		result := s.db.WithContext(ctx).Model(&models.Task{}).Where("id = ?", id).Updates(updates)
		if result.Error != nil {
			return nil, result.Error
		}
		if result.RowsAffected == 0 {
			return nil, ErrNotFound
		}
	}
	return s.GetTask(ctx, id)
}

// DeleteTask detaches the task from its sessions and files before removing
// it, so no dangling task_id survives.
func (s *GormStore) DeleteTask(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.PomodoroSession{}).Where("task_id = ?", id).Update("task_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.FileUpload{}).Where("task_id = ?", id).Update("task_id", nil).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&models.Task{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
