package middleware

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/studyhub-backend/internal/auth"
	"github.com/ahmetcoskunkizilkaya/studyhub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/studyhub-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/studyhub-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

// AdminRequired admits callers whose profile carries the admin role. A
// caller without a profile is treated as a student.
func AdminRequired(authz *services.Authorizer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.GetUserID(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		if err := authz.RequireRole(c.UserContext(), userID, models.RoleAdmin); err != nil {
			if errors.Is(err, services.ErrForbidden) {
				return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
					Error: true, Message: "Admin access required",
				})
			}
			slog.Error("admin check failed", "user_id", userID, "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error: true, Message: "Internal server error",
			})
		}

		return c.Next()
	}
}
