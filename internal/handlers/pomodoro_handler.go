package handlers

import (
	"github.com/ahmetcoskunkizilkaya/studyhub-backend/internal/auth"
	"github.com/ahmetcoskunkizilkaya/studyhub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/studyhub-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type PomodoroHandler struct {
	pomodoroService *services.PomodoroService
}

func NewPomodoroHandler(pomodoroService *services.PomodoroService) *PomodoroHandler {
	return &PomodoroHandler{pomodoroService: pomodoroService}
}

func (h *PomodoroHandler) List(c *fiber.Ctx) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	sessions, err := h.pomodoroService.List(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sessions)
}

func (h *PomodoroHandler) Create(c *fiber.Ctx) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.CreatePomodoroRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	session, err := h.pomodoroService.Create(c.UserContext(), userID, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(session)
}
