package dto

import (
	"github.com/ahmetcoskunkizilkaya/studyhub-backend/internal/models"
)

type CreatePomodoroRequest struct {
	TaskID        *string `json:"taskId"`
	Duration      *int    `json:"duration"`
	BreakDuration *int    `json:"breakDuration"`
	Completed     *bool   `json:"completed"`
}

type UpdateProfileRequest struct {
	StudyGoal         models.Nullable[string] `json:"studyGoal"`
	PreferredSubjects *[]string               `json:"preferredSubjects"`
	DailyStudyTarget  models.Nullable[int]    `json:"dailyStudyTarget"`
}

type UpdateRoleRequest struct {
	Role string `json:"role"`
}

type NotificationEvent struct {
	UserID  string `json:"userId"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Type    string `json:"type"`
}
