package services

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ahmetcoskunkizilkaya/studyhub-backend/internal/filestore"
	"github.com/ahmetcoskunkizilkaya/studyhub-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/studyhub-backend/internal/storage"
	"github.com/google/uuid"
)

const testMaxUpload = 50 << 20

func newFileService(t *testing.T, store storage.Store) (*FileService, string) {
	t.Helper()
	dir := t.TempDir()
	blobs, err := filestore.NewLocalStore(dir)
	if err != nil {
		t.Fatalf("local store: %v", err)
	}
	return NewFileService(store, blobs, testMaxUpload), dir
}

func countFiles(t *testing.T, dir string) int {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	return len(entries)
}

func TestUploadRejectsDisallowedType(t *testing.T) {
	store := newTestStore(t)
	svc, dir := newFileService(t, store)
	ctx := context.Background()

	_, err := svc.Upload(ctx, "user-a", UploadInput{
		OriginalName: "archive.zip",
		MimeType:     "application/zip",
		Size:         4,
		Content:      strings.NewReader("PK.."),
	})
	requireValidationField(t, err, "file")

	files, err := svc.List(ctx, "user-a")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(files) != 0 || countFiles(t, dir) != 0 {
		t.Fatal("rejected upload must not create metadata or blobs")
	}
}

func TestUploadRejectsOversizedFile(t *testing.T) {
	store := newTestStore(t)
	svc, dir := newFileService(t, store)

	_, err := svc.Upload(context.Background(), "user-a", UploadInput{
		OriginalName: "huge.pdf",
		MimeType:     "application/pdf",
		Size:         60 << 20,
		Content:      strings.NewReader("%PDF"),
	})
	requireValidationField(t, err, "file")
	if countFiles(t, dir) != 0 {
		t.Fatal("oversized upload must not be stored")
	}
}

func TestUploadEnforcesLimitOnActualBytes(t *testing.T) {
	store := newTestStore(t)
	dir := t.TempDir()
	blobs, err := filestore.NewLocalStore(dir)
	if err != nil {
		t.Fatalf("local store: %v", err)
	}
	svc := NewFileService(store, blobs, 8)

	_, err = svc.Upload(context.Background(), "user-a", UploadInput{
		OriginalName: "notes.txt",
		MimeType:     "text/plain",
		Size:         4,
		Content:      strings.NewReader("0123456789"),
	})
	requireValidationField(t, err, "file")
	if countFiles(t, dir) != 0 {
		t.Fatal("blob exceeding the limit should be removed")
	}
}

func TestUploadDownloadDelete(t *testing.T) {
	store := newTestStore(t)
	svc, dir := newFileService(t, store)
	ctx := context.Background()

	file, err := svc.Upload(ctx, "user-a", UploadInput{
		OriginalName: "Notes.TXT",
		MimeType:     "text/plain; charset=utf-8",
		Size:         10,
		Content:      strings.NewReader("0123456789"),
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if file.Size != 10 || file.MimeType != "text/plain" || file.OriginalName != "Notes.TXT" {
		t.Fatalf("unexpected metadata: %+v", file)
	}
	if file.Filename == file.OriginalName || !strings.HasSuffix(file.Filename, ".txt") {
		t.Fatalf("unexpected stored name %q", file.Filename)
	}

	if _, _, err := svc.Open(ctx, "user-b", file.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	meta, rc, err := svc.Open(ctx, "user-a", file.ID)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	data, _ := io.ReadAll(rc)
	rc.Close()
	if string(data) != "0123456789" || meta.ID != file.ID {
		t.Fatalf("unexpected download %q", data)
	}

	if err := svc.Delete(ctx, "user-b", file.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := svc.Delete(ctx, "user-a", file.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if countFiles(t, dir) != 0 {
		t.Fatal("blob should be removed")
	}
	if _, _, err := svc.Open(ctx, "user-a", file.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestDownloadMissingBlobIsNotFoundAndDeleteTolerates(t *testing.T) {
	store := newTestStore(t)
	svc, dir := newFileService(t, store)
	ctx := context.Background()

	file, err := svc.Upload(ctx, "user-a", UploadInput{
		OriginalName: "a.pdf",
		MimeType:     "application/pdf",
		Size:         4,
		Content:      strings.NewReader("%PDF"),
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if err := os.Remove(filepath.Join(dir, file.Filename)); err != nil {
		t.Fatalf("remove blob: %v", err)
	}

	if _, _, err := svc.Open(ctx, "user-a", file.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing blob, got %v", err)
	}
	if err := svc.Delete(ctx, "user-a", file.ID); err != nil {
		t.Fatalf("delete with missing blob: %v", err)
	}
	files, _ := svc.List(ctx, "user-a")
	if len(files) != 0 {
		t.Fatal("metadata should be gone")
	}
}

func TestUploadTaskMustBeOwned(t *testing.T) {
	store := newTestStore(t)
	svc, _ := newFileService(t, store)
	ctx := context.Background()

	task, err := store.CreateTask(ctx, &models.Task{UserID: "user-a", Title: "Essay", Priority: "medium", Status: "pending"})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	in := UploadInput{OriginalName: "a.txt", MimeType: "text/plain", Size: 1, Content: strings.NewReader("x")}
	in.TaskID = strPtr(task.ID.String())
	if _, err := svc.Upload(ctx, "user-b", in); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	in.Content = strings.NewReader("x")
	file, err := svc.Upload(ctx, "user-a", in)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if file.TaskID == nil || *file.TaskID != task.ID {
		t.Fatalf("expected file linked to task, got %v", file.TaskID)
	}
}

type failingFileStore struct {
	storage.Store
}

func (failingFileStore) CreateFile(context.Context, *models.FileUpload) (*models.FileUpload, error) {
	return nil, errors.New("insert failed")
}

func TestUploadRemovesBlobWhenMetadataFails(t *testing.T) {
	svc, dir := newFileService(t, failingFileStore{Store: newTestStore(t)})

	_, err := svc.Upload(context.Background(), "user-a", UploadInput{
		OriginalName: "a.txt",
		MimeType:     "text/plain",
		Size:         1,
		Content:      strings.NewReader("x"),
	})
	if err == nil {
		t.Fatal("expected upload to fail")
	}
	if countFiles(t, dir) != 0 {
		t.Fatal("orphaned blob should be removed")
	}
}

func TestOpenUnknownFileIsNotFound(t *testing.T) {
	svc, _ := newFileService(t, newTestStore(t))
	if _, _, err := svc.Open(context.Background(), "user-a", uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
