package storage

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/studyhub-backend/internal/models"
)

type PlatformTotals struct {
	TotalUsers        int64 `json:"totalUsers"`
	TotalTasks        int64 `json:"totalTasks"`
	CompletedTasks    int64 `json:"completedTasks"`
	CompletedSessions int64 `json:"completedSessions"`
	TotalStudyMinutes int64 `json:"totalStudyMinutes"`
}

type UserActivity struct {
	UserID            string `json:"userId"`
	Email             string `json:"email"`
	Name              string `json:"name"`
	TaskCount         int64  `json:"taskCount"`
	CompletedSessions int64  `json:"completedSessions"`
}

func (s *GormStore) PlatformTotals(ctx context.Context) (*PlatformTotals, error) {
	db := s.db.WithContext(ctx)
	var totals PlatformTotals

	if err := db.Model(&models.User{}).Count(&totals.TotalUsers).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Task{}).Count(&totals.TotalTasks).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Task{}).Where("status = ?", models.TaskCompleted).Count(&totals.CompletedTasks).Error; err != nil {
		return nil, err
	}

	var sessions struct {
		Count   int64
		Minutes int64
	}
	if err := db.Model(&models.PomodoroSession{}).
		Select("COUNT(*) AS count, COALESCE(SUM(duration), 0) AS minutes").
		Where("completed = ?", true).
		Scan(&sessions).Error; err != nil {
		return nil, err
	}
	totals.CompletedSessions = sessions.Count
	totals.TotalStudyMinutes = sessions.Minutes

	return &totals, nil
}

// UserActivity returns one row per user with grouped task and completed
// session counts computed in the database.
func (s *GormStore) UserActivity(ctx context.Context) ([]UserActivity, error) {
	taskCounts := s.db.Model(&models.Task{}).
		Select("user_id, COUNT(*) AS task_count").
		Group("user_id")
	sessionCounts := s.db.Model(&models.PomodoroSession{}).
		Select("user_id, COUNT(*) AS completed_sessions").
		Where("completed = ?", true).
		Group("user_id")

	var rows []UserActivity
	err := s.db.WithContext(ctx).
		Table("users").
		Select("users.id AS user_id, users.email, users.name, COALESCE(tc.task_count, 0) AS task_count, COALESCE(sc.completed_sessions, 0) AS completed_sessions").
		Joins("LEFT JOIN (?) AS tc ON tc.user_id = users.id", taskCounts).
		Joins("LEFT JOIN (?) AS sc ON sc.user_id = users.id", sessionCounts).
		Order("task_count DESC, users.created_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
