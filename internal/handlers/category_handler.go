package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/apperrors"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/services/gig"
)

// CategoryHandler serves reference data: gig categories and technologies.
type CategoryHandler struct {
	Gigs *gig.Service
}

func NewCategoryHandler(gigs *gig.Service) *CategoryHandler {
	return &CategoryHandler{Gigs: gigs}
}

func (h *CategoryHandler) GetCategories(c *fiber.Ctx) error {
	categories, err := h.Gigs.Categories(c.UserContext())
	if err != nil {
		return apperrors.Respond(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    categories,
	})
}

func (h *CategoryHandler) GetTechnologies(c *fiber.Ctx) error {
	techs, err := h.Gigs.Technologies(c.UserContext())
	if err != nil {
		return apperrors.Respond(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    techs,
	})
}
