package handlers

import (
	"github.com/ahmetcoskunkizilkaya/studyhub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/studyhub-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

// AdminHandler serves routes that sit behind middleware.AdminRequired.
type AdminHandler struct {
	adminService *services.AdminService
}

func NewAdminHandler(adminService *services.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.adminService.Stats(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stats)
}

func (h *AdminHandler) Users(c *fiber.Ctx) error {
	users, err := h.adminService.Users(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(users)
}

func (h *AdminHandler) UpdateRole(c *fiber.Ctx) error {
	var req dto.UpdateRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	profile, err := h.adminService.UpdateRole(c.UserContext(), c.Params("userId"), req.Role)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(profile)
}
