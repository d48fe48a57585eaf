package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"path/filepath"
	"strings"

	"github.com/ahmetcoskunkizilkaya/studyhub-backend/internal/filestore"
	"github.com/ahmetcoskunkizilkaya/studyhub-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/studyhub-backend/internal/storage"
	"github.com/google/uuid"
	"github.com/segmentio/ksuid"
)

// AllowedMimeTypes covers PDF, common images, plain text and the legacy
// and OOXML Office formats.
var AllowedMimeTypes = stringSet(
	"application/pdf",
	"image/jpeg",
	"image/png",
	"image/gif",
	"image/webp",
	"text/plain",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"application/vnd.ms-excel",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"application/vnd.ms-powerpoint",
	"application/vnd.openxmlformats-officedocument.presentationml.presentation",
)

func stringSet(values ...string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

type UploadInput struct {
	OriginalName string
	MimeType     string
	Size         int64
	TaskID       *string
	Content      io.Reader
}

type FileService struct {
	store    storage.Store
	blobs    filestore.Store
	maxBytes int64
}

func NewFileService(store storage.Store, blobs filestore.Store, maxBytes int64) *FileService {
	return &FileService{store: store, blobs: blobs, maxBytes: maxBytes}
}

func (s *FileService) List(ctx context.Context, userID string) ([]models.FileUpload, error) {
	return s.store.ListFiles(ctx, userID)
}

// storedName is a KSUID (time-ordered, random) plus the original extension.
func storedName(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	if len(ext) > 16 {
		ext = ""
	}
	return ksuid.New().String() + ext
}

func normalizeMimeType(raw string) string {
	mt, _, err := mime.ParseMediaType(raw)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(raw))
	}
	return mt
}

func (s *FileService) Upload(ctx context.Context, userID string, in UploadInput) (*models.FileUpload, error) {
	mimeType := normalizeMimeType(in.MimeType)
	if !AllowedMimeTypes[mimeType] {
		return nil, invalidField("file", "file type not allowed")
	}
	if in.Size > s.maxBytes {
		return nil, invalidField("file", fmt.Sprintf("file exceeds the %dMB limit", s.maxBytes>>20))
	}

	original := filepath.Base(strings.TrimSpace(in.OriginalName))
	if original == "" || original == "." || original == string(filepath.Separator) {
		return nil, invalidField("file", "file name is required")
	}

	taskID, err := referencedTask(ctx, s.store, userID, in.TaskID)
	if err != nil {
		return nil, err
	}

	name := storedName(original)
	written, err := s.blobs.Save(ctx, name, io.LimitReader(in.Content, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}
	if written > s.maxBytes {
		s.removeBlob(ctx, name)
		return nil, invalidField("file", fmt.Sprintf("file exceeds the %dMB limit", s.maxBytes>>20))
	}

	file, err := s.store.CreateFile(ctx, &models.FileUpload{
		UserID:       userID,
		Filename:     name,
		OriginalName: original,
		MimeType:     mimeType,
		Size:         written,
		TaskID:       taskID,
	})
	if err != nil {
		s.removeBlob(ctx, name)
		return nil, fmt.Errorf("save file metadata: %w", err)
	}
	return file, nil
}

func (s *FileService) removeBlob(ctx context.Context, name string) {
	if err := s.blobs.Remove(ctx, name); err != nil {
		slog.Warn("failed to remove orphaned upload", "filename", name, "error", err)
	}
}

// Open returns the metadata and content of an owned file. Metadata whose
// blob has disappeared is reported as ErrNotFound.
func (s *FileService) Open(ctx context.Context, userID string, id uuid.UUID) (*models.FileUpload, io.ReadCloser, error) {
	file, err := authorizeOwned(ctx, userID, id, s.store.GetFile, fileOwner)
	if err != nil {
		return nil, nil, err
	}
	rc, err := s.blobs.Open(ctx, file.Filename)
	if err != nil {
		if errors.Is(err, filestore.ErrNotExist) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}
	return file, rc, nil
}

func (s *FileService) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	file, err := authorizeOwned(ctx, userID, id, s.store.GetFile, fileOwner)
	if err != nil {
		return err
	}
	if err := s.blobs.Remove(ctx, file.Filename); err != nil {
		return fmt.Errorf("remove stored file: %w", err)
	}
	if err := s.store.DeleteFile(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
