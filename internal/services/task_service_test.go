package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ahmetcoskunkizilkaya/studyhub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/studyhub-backend/internal/models"
	"github.com/google/uuid"
)

func TestTaskCreateDefaultsAndValidation(t *testing.T) {
	svc := NewTaskService(newTestStore(t))
	ctx := context.Background()

	task, err := svc.Create(ctx, "user-a", dto.CreateTaskRequest{Title: "  Essay  ", Priority: "high"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if task.Title != "Essay" || task.Status != models.TaskPending || task.Priority != models.PriorityHigh {
		t.Fatalf("unexpected task: %+v", task)
	}
	if task.CompletedAt != nil {
		t.Fatal("pending task should not have completedAt")
	}

	cases := []struct {
		name  string
		req   dto.CreateTaskRequest
		field string
	}{
		{"missing title", dto.CreateTaskRequest{Title: "   "}, "title"},
		{"long title", dto.CreateTaskRequest{Title: strings.Repeat("x", 501)}, "title"},
		{"bad priority", dto.CreateTaskRequest{Title: "a", Priority: "urgent"}, "priority"},
		{"bad status", dto.CreateTaskRequest{Title: "a", Status: "done"}, "status"},
		{"bad due date", dto.CreateTaskRequest{Title: "a", DueDate: strPtr("next week")}, "dueDate"},
		{"zero minutes", dto.CreateTaskRequest{Title: "a", EstimatedMinutes: intPtr(0)}, "estimatedMinutes"},
		{"too many minutes", dto.CreateTaskRequest{Title: "a", EstimatedMinutes: intPtr(1441)}, "estimatedMinutes"},
		{"long subject", dto.CreateTaskRequest{Title: "a", Subject: strPtr(strings.Repeat("s", 201))}, "subject"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, "user-a", tc.req)
			requireValidationField(t, err, tc.field)
		})
	}
}

func TestTaskCreateParsesDueDate(t *testing.T) {
	svc := NewTaskService(newTestStore(t))
	ctx := context.Background()

	task, err := svc.Create(ctx, "user-a", dto.CreateTaskRequest{Title: "Exam", DueDate: strPtr("2026-05-01")})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if task.DueDate == nil || task.DueDate.Format("2006-01-02") != "2026-05-01" {
		t.Fatalf("unexpected due date: %v", task.DueDate)
	}

	task, err = svc.Create(ctx, "user-a", dto.CreateTaskRequest{Title: "Lab", DueDate: strPtr("2026-05-01T09:30:00Z")})
	if err != nil {
		t.Fatalf("create rfc3339: %v", err)
	}
	if task.DueDate == nil || task.DueDate.Hour() != 9 {
		t.Fatalf("unexpected due date: %v", task.DueDate)
	}
}

func TestTaskOwnershipIsEnforced(t *testing.T) {
	svc := NewTaskService(newTestStore(t))
	ctx := context.Background()

	task, err := svc.Create(ctx, "user-a", dto.CreateTaskRequest{Title: "Essay"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Get(ctx, "user-b", task.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden on get, got %v", err)
	}
	if _, err := svc.Update(ctx, "user-b", task.ID, dto.UpdateTaskRequest{Title: strPtr("hijack")}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden on update, got %v", err)
	}
	if err := svc.Delete(ctx, "user-b", task.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden on delete, got %v", err)
	}
	if _, err := svc.Get(ctx, "user-a", uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing task, got %v", err)
	}

	got, err := svc.Get(ctx, "user-a", task.ID)
	if err != nil || got.Title != "Essay" {
		t.Fatalf("owner should still see untouched task, got %+v err=%v", got, err)
	}
}

func TestTaskUpdateCompletionAndClearing(t *testing.T) {
	svc := NewTaskService(newTestStore(t))
	ctx := context.Background()

	task, err := svc.Create(ctx, "user-a", dto.CreateTaskRequest{
		Title:   "Essay",
		Subject: strPtr("History"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.Update(ctx, "user-a", task.ID, dto.UpdateTaskRequest{Status: strPtr(models.TaskCompleted)})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if updated.CompletedAt == nil {
		t.Fatal("expected completedAt after completing")
	}
	if updated.Subject == nil || *updated.Subject != "History" {
		t.Fatalf("untouched subject changed: %v", updated.Subject)
	}

	updated, err = svc.Update(ctx, "user-a", task.ID, dto.UpdateTaskRequest{
		Status:  strPtr(models.TaskInProgress),
		Subject: models.Null[string](),
	})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if updated.CompletedAt != nil {
		t.Fatal("completedAt should be cleared when leaving completed")
	}
	if updated.Subject != nil {
		t.Fatalf("subject should be cleared, got %q", *updated.Subject)
	}

	_, err = svc.Update(ctx, "user-a", task.ID, dto.UpdateTaskRequest{Title: strPtr("")})
	requireValidationField(t, err, "title")
}
