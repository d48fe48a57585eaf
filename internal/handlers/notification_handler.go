package handlers

import (
	"github.com/ahmetcoskunkizilkaya/studyhub-backend/internal/auth"
	"github.com/ahmetcoskunkizilkaya/studyhub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/studyhub-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type NotificationHandler struct {
	notificationService *services.NotificationService
}

func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

func (h *NotificationHandler) List(c *fiber.Ctx) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	list, err := h.notificationService.List(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := services.ParseID("id", c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}

	n, err := h.notificationService.MarkRead(c.UserContext(), userID, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(n)
}

func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	updated, err := h.notificationService.MarkAllRead(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.CountResponse{Updated: updated})
}
