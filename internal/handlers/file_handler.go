package handlers

import (
	"fmt"
	"strings"

	"github.com/ahmetcoskunkizilkaya/studyhub-backend/internal/auth"
	"github.com/ahmetcoskunkizilkaya/studyhub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/studyhub-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type FileHandler struct {
	fileService *services.FileService
}

func NewFileHandler(fileService *services.FileService) *FileHandler {
	return &FileHandler{fileService: fileService}
}

func (h *FileHandler) List(c *fiber.Ctx) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	files, err := h.fileService.List(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(files)
}

// Upload accepts one multipart file in the "file" field and an optional
// "taskId" field.
func (h *FileHandler) Upload(c *fiber.Ctx) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Validation failed", Fields: map[string]string{"file": "is required"},
		})
	}

	f, err := fh.Open()
	if err != nil {
		return respondError(c, fmt.Errorf("open multipart file: %w", err))
	}
	defer f.Close()

	in := services.UploadInput{
		OriginalName: fh.Filename,
		MimeType:     fh.Header.Get(fiber.HeaderContentType),
		Size:         fh.Size,
		Content:      f,
	}
	if taskID := strings.TrimSpace(c.FormValue("taskId")); taskID != "" {
		in.TaskID = &taskID
	}

	file, err := h.fileService.Upload(c.UserContext(), userID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(file)
}

func (h *FileHandler) Download(c *fiber.Ctx) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := services.ParseID("id", c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}

	file, rc, err := h.fileService.Open(c.UserContext(), userID, id)
	if err != nil {
		return respondError(c, err)
	}

	c.Set(fiber.HeaderContentType, file.MimeType)
	c.Set(fiber.HeaderContentDisposition, contentDisposition(file.OriginalName))
	// fasthttp closes the stream once the body is written.
	return c.SendStream(rc, int(file.Size))
}

func (h *FileHandler) Delete(c *fiber.Ctx) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := services.ParseID("id", c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}

	if err := h.fileService.Delete(c.UserContext(), userID, id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func contentDisposition(name string) string {
	ascii := true
	fallback := strings.Map(func(r rune) rune {
		switch {
		case r == '"' || r == '\\' || r < 0x20 || r == 0x7f:
			return '_'
		case r > 0x7f:
			ascii = false
			return '_'
		}
		return r
	}, name)
	if ascii {
		return fmt.Sprintf(`attachment; filename="%s"`, fallback)
	}
	return fmt.Sprintf(`attachment; filename="%s"; filename*=UTF-8''%s`, fallback, encodeExtValue(name))
}

// encodeExtValue percent-encodes everything outside the RFC 5987 attr-char set.
func encodeExtValue(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isAttrChar(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func isAttrChar(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("!#$&+-.^_`|~", c) >= 0
}
