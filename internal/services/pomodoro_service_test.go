package services

import (
	"context"
	"errors"
	"testing"

	"github.com/ahmetcoskunkizilkaya/studyhub-backend/internal/dto"
	"github.com/google/uuid"
)

func TestPomodoroCreateValidation(t *testing.T) {
	svc := NewPomodoroService(newTestStore(t))
	ctx := context.Background()

	cases := []struct {
		name  string
		req   dto.CreatePomodoroRequest
		field string
	}{
		{"missing duration", dto.CreatePomodoroRequest{BreakDuration: intPtr(5), Completed: boolPtr(true)}, "duration"},
		{"duration too long", dto.CreatePomodoroRequest{Duration: intPtr(121), BreakDuration: intPtr(5), Completed: boolPtr(true)}, "duration"},
		{"break too short", dto.CreatePomodoroRequest{Duration: intPtr(25), BreakDuration: intPtr(0), Completed: boolPtr(true)}, "breakDuration"},
		{"break too long", dto.CreatePomodoroRequest{Duration: intPtr(25), BreakDuration: intPtr(61), Completed: boolPtr(true)}, "breakDuration"},
		{"missing completed", dto.CreatePomodoroRequest{Duration: intPtr(25), BreakDuration: intPtr(5)}, "completed"},
		{"bad task id", dto.CreatePomodoroRequest{Duration: intPtr(25), BreakDuration: intPtr(5), Completed: boolPtr(true), TaskID: strPtr("nope")}, "taskId"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, "user-a", tc.req)
			requireValidationField(t, err, tc.field)
		})
	}
}

func TestPomodoroCreateSetsEndedAtOnlyWhenCompleted(t *testing.T) {
	svc := NewPomodoroService(newTestStore(t))
	ctx := context.Background()

	done, err := svc.Create(ctx, "user-a", dto.CreatePomodoroRequest{Duration: intPtr(25), BreakDuration: intPtr(5), Completed: boolPtr(true)})
	if err != nil {
		t.Fatalf("create completed: %v", err)
	}
	if done.EndedAt == nil {
		t.Fatal("completed session should have endedAt")
	}

	aborted, err := svc.Create(ctx, "user-a", dto.CreatePomodoroRequest{Duration: intPtr(25), BreakDuration: intPtr(5), Completed: boolPtr(false)})
	if err != nil {
		t.Fatalf("create aborted: %v", err)
	}
	if aborted.EndedAt != nil {
		t.Fatal("aborted session should not have endedAt")
	}

	sessions, err := svc.List(ctx, "user-a")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(sessions))
	}
}

func TestPomodoroRejectsForeignOrMissingTask(t *testing.T) {
	store := newTestStore(t)
	tasks := NewTaskService(store)
	svc := NewPomodoroService(store)
	ctx := context.Background()

	task, err := tasks.Create(ctx, "user-a", dto.CreateTaskRequest{Title: "Essay"})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	base := dto.CreatePomodoroRequest{Duration: intPtr(25), BreakDuration: intPtr(5), Completed: boolPtr(true)}

	foreign := base
	foreign.TaskID = strPtr(task.ID.String())
	if _, err := svc.Create(ctx, "user-b", foreign); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for foreign task, got %v", err)
	}

	missing := base
	missing.TaskID = strPtr(uuid.NewString())
	if _, err := svc.Create(ctx, "user-a", missing); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for missing task, got %v", err)
	}

	own := base
	own.TaskID = strPtr(task.ID.String())
	session, err := svc.Create(ctx, "user-a", own)
	if err != nil {
		t.Fatalf("create with own task: %v", err)
	}
	if session.TaskID == nil || *session.TaskID != task.ID {
		t.Fatalf("expected session linked to task, got %v", session.TaskID)
	}
}
