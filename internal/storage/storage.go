// Package storage is the data access layer. It filters by owner where a
// method is per-user but never decides whether a caller may see a row;
// authorization belongs to the services package.
package storage

import (
	"context"
	"errors"

	"github.com/ahmetcoskunkizilkaya/studyhub-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("record not found")

type Store interface {
	// Users
	UpsertUser(ctx context.Context, user *models.User) error
	ListUsersWithRoles(ctx context.Context) ([]UserWithRole, error)

	// Profiles
	GetProfile(ctx context.Context, userID string) (*models.UserProfile, error)
	GetOrCreateProfile(ctx context.Context, userID string) (*models.UserProfile, error)
	UpsertProfile(ctx context.Context, userID string, patch ProfilePatch) (*models.UserProfile, error)

	// Tasks
	ListTasks(ctx context.Context, userID string) ([]models.Task, error)
	GetTask(ctx context.Context, id uuid.UUID) (*models.Task, error)
	CreateTask(ctx context.Context, task *models.Task) (*models.Task, error)
	UpdateTask(ctx context.Context, id uuid.UUID, patch models.TaskPatch) (*models.Task, error)
	DeleteTask(ctx context.Context, id uuid.UUID) error

	// Pomodoro sessions
	ListSessions(ctx context.Context, userID string) ([]models.PomodoroSession, error)
	CreateSession(ctx context.Context, session *models.PomodoroSession) (*models.PomodoroSession, error)

	// Recommendations
	ListRecommendations(ctx context.Context, userID string) ([]models.StudyRecommendation, error)
	GetRecommendation(ctx context.Context, id uuid.UUID) (*models.StudyRecommendation, error)
	CreateRecommendations(ctx context.Context, recs []models.StudyRecommendation) ([]models.StudyRecommendation, error)
	DismissRecommendation(ctx context.Context, id uuid.UUID) (*models.StudyRecommendation, error)

	// Files
	ListFiles(ctx context.Context, userID string) ([]models.FileUpload, error)
	GetFile(ctx context.Context, id uuid.UUID) (*models.FileUpload, error)
	CreateFile(ctx context.Context, file *models.FileUpload) (*models.FileUpload, error)
	DeleteFile(ctx context.Context, id uuid.UUID) error

	// Notifications
	ListNotifications(ctx context.Context, userID string) ([]models.Notification, error)
	GetNotification(ctx context.Context, id uuid.UUID) (*models.Notification, error)
	CreateNotification(ctx context.Context, n *models.Notification) (*models.Notification, error)
	MarkNotificationRead(ctx context.Context, id uuid.UUID) (*models.Notification, error)
	MarkAllNotificationsRead(ctx context.Context, userID string) (int64, error)

	// Aggregates
	PlatformTotals(ctx context.Context) (*PlatformTotals, error)
	UserActivity(ctx context.Context) ([]UserActivity, error)
}

// GormStore implements Store on top of GORM.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// ForUser returns a GORM scope that filters rows by owner.
func ForUser(userID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userID)
	}
}

func newestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC")
}

func first[T any](ctx context.Context, db *gorm.DB, id uuid.UUID) (*T, error) {
	var row T
	if err := db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}
