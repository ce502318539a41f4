package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/apperrors"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/services/gig"
)

type GigHandler struct {
	Gigs    *gig.Service
	Uploads Uploads
}

func NewGigHandler(gigs *gig.Service, uploads Uploads) *GigHandler {
	return &GigHandler{Gigs: gigs, Uploads: uploads}
}

func (h *GigHandler) Create(c *fiber.Ctx) error {
	actor, err := getAuth(c)
	if err != nil {
		return apperrors.Respond(c, err)
	}

	var req gig.CreateInput
	if err := parseBody(c, &req); err != nil {
		return apperrors.Respond(c, err)
	}

	g, err := h.Gigs.Create(c.UserContext(), actor, req)
	if err != nil {
		return apperrors.Respond(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Gig created",
		"data":    g,
	})
}

func (h *GigHandler) Get(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id", "gig")
	if err != nil {
		return apperrors.Respond(c, err)
	}

	g, err := h.Gigs.Get(c.UserContext(), id)
	if err != nil {
		return apperrors.Respond(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    g,
	})
}

func (h *GigHandler) ListByFreelancer(c *fiber.Ctx) error {
	id, err := paramUUID(c, "freelancerId", "freelancer")
	if err != nil {
		return apperrors.Respond(c, err)
	}

	gigs, err := h.Gigs.ListByFreelancer(c.UserContext(), id)
	if err != nil {
		return apperrors.Respond(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    gigs,
	})
}

func (h *GigHandler) Edit(c *fiber.Ctx) error {
	actor, err := getAuth(c)
	if err != nil {
		return apperrors.Respond(c, err)
	}
	id, err := paramUUID(c, "id", "gig")
	if err != nil {
		return apperrors.Respond(c, err)
	}

	var req gig.EditInput
	if err := parseBody(c, &req); err != nil {
		return apperrors.Respond(c, err)
	}

	g, err := h.Gigs.Edit(c.UserContext(), actor, id, req)
	if err != nil {
		return apperrors.Respond(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Gig updated",
		"data":    g,
	})
}

func (h *GigHandler) Delete(c *fiber.Ctx) error {
	actor, err := getAuth(c)
	if err != nil {
		return apperrors.Respond(c, err)
	}
	id, err := paramUUID(c, "id", "gig")
	if err != nil {
		return apperrors.Respond(c, err)
	}

	if err := h.Gigs.Delete(c.UserContext(), actor, id); err != nil {
		return apperrors.Respond(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Gig deleted",
	})
}

// UploadThumbnail stores multipart field "thumbnail" and attaches it to the gig.
func (h *GigHandler) UploadThumbnail(c *fiber.Ctx) error {
	actor, err := getAuth(c)
	if err != nil {
		return apperrors.Respond(c, err)
	}
	id, err := paramUUID(c, "id", "gig")
	if err != nil {
		return apperrors.Respond(c, err)
	}

	if err := h.Gigs.CanUpload(c.UserContext(), actor, id); err != nil {
		return apperrors.Respond(c, err)
	}

	url, err := h.Uploads.SaveImage(c, "thumbnail", "thumbnails")
	if err != nil {
		return apperrors.Respond(c, err)
	}

	th, err := h.Gigs.AddThumbnail(c.UserContext(), actor, id, url)
	if err != nil {
		return apperrors.Respond(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    th,
	})
}
