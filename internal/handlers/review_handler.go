package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/apperrors"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/services/review"
)

type ReviewHandler struct {
	Reviews *review.Service
}

func NewReviewHandler(reviews *review.Service) *ReviewHandler {
	return &ReviewHandler{Reviews: reviews}
}

func (h *ReviewHandler) CreateReview(c *fiber.Ctx) error {
	actor, err := getAuth(c)
	if err != nil {
		return apperrors.Respond(c, err)
	}
	gigID, err := paramUUID(c, "id", "gig")
	if err != nil {
		return apperrors.Respond(c, err)
	}

	var req review.CreateInput
	if err := parseBody(c, &req); err != nil {
		return apperrors.Respond(c, err)
	}

	r, err := h.Reviews.Create(c.UserContext(), actor, gigID, req)
	if err != nil {
		return apperrors.Respond(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Review submitted",
		"data":    r,
	})
}
