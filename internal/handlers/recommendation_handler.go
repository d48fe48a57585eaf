package handlers

import (
	"github.com/ahmetcoskunkizilkaya/studyhub-backend/internal/auth"
	"github.com/ahmetcoskunkizilkaya/studyhub-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type RecommendationHandler struct {
	recommendationService *services.RecommendationService
}

func NewRecommendationHandler(recommendationService *services.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{recommendationService: recommendationService}
}

func (h *RecommendationHandler) List(c *fiber.Ctx) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	recs, err := h.recommendationService.List(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(recs)
}

// Generate calls the AI provider in the request path. It is not retried.
func (h *RecommendationHandler) Generate(c *fiber.Ctx) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	recs, err := h.recommendationService.Generate(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(recs)
}

func (h *RecommendationHandler) Dismiss(c *fiber.Ctx) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := services.ParseID("id", c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}

	rec, err := h.recommendationService.Dismiss(c.UserContext(), userID, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(rec)
}
