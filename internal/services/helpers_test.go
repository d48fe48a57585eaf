package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/ahmetcoskunkizilkaya/studyhub-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/studyhub-backend/internal/storage"
)

func newTestStore(t *testing.T) *storage.GormStore {
	t.Helper()

	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "services-test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return storage.NewGormStore(db)
}

type fakeAI struct {
	reply   string
	err     error
	calls   int
	prompts []string
}

func (f *fakeAI) Complete(_ context.Context, _, prompt string) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func boolPtr(b bool) *bool { return &b }

func requireValidationField(t *testing.T, err error, field string) {
	t.Helper()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := verr.Fields[field]; !ok {
		t.Fatalf("expected field error for %q, got %v", field, verr.Fields)
	}
}
