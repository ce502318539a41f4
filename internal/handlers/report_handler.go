package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/apperrors"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/services/moderation"
)

type ReportHandler struct {
	Moderation *moderation.Service
}

func NewReportHandler(m *moderation.Service) *ReportHandler {
	return &ReportHandler{Moderation: m}
}

// Report handles PUT /report {userId, message}.
func (h *ReportHandler) Report(c *fiber.Ctx) error {
	actor, err := getAuth(c)
	if err != nil {
		return apperrors.Respond(c, err)
	}

	var req moderation.ReportInput
	if err := parseBody(c, &req); err != nil {
		return apperrors.Respond(c, err)
	}

	u, err := h.Moderation.Report(c.UserContext(), actor, req)
	if err != nil {
		return apperrors.Respond(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "OK",
		"data":    fiber.Map{"user": userSummary(u)},
	})
}

func (h *ReportHandler) ListReports(c *fiber.Ctx) error {
	actor, err := getAuth(c)
	if err != nil {
		return apperrors.Respond(c, err)
	}
	userID, err := paramUUID(c, "id", "user")
	if err != nil {
		return apperrors.Respond(c, err)
	}

	reports, err := h.Moderation.ListReports(c.UserContext(), actor, userID)
	if err != nil {
		return apperrors.Respond(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    reports,
	})
}
