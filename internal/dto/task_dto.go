package dto

import "github.com/ahmetcoskunkizilkaya/studyhub-backend/internal/models"

type CreateTaskRequest struct {
	Title            string  `json:"title"`
	Description      *string `json:"description"`
	Subject          *string `json:"subject"`
	Priority         string  `json:"priority"`
	Status           string  `json:"status"`
	DueDate          *string `json:"dueDate"`
	EstimatedMinutes *int    `json:"estimatedMinutes"`
}

// UpdateTaskRequest distinguishes omitted fields from explicit nulls so that
// nullable columns can be cleared.
type UpdateTaskRequest struct {
	Title            *string                 `json:"title"`
	Description      models.Nullable[string] `json:"description"`
	Subject          models.Nullable[string] `json:"subject"`
	Priority         *string                 `json:"priority"`
	Status           *string                 `json:"status"`
	DueDate          models.Nullable[string] `json:"dueDate"`
	EstimatedMinutes models.Nullable[int]    `json:"estimatedMinutes"`
}
