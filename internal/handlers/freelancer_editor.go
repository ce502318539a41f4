package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/apperrors"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/services/editor"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/services/profile"
)

// FreelancerEditorHandler serves the multi-step profile editor. Each step
// is saved to the draft; only Submit writes the profile.
type FreelancerEditorHandler struct {
	Editor   *editor.Service
	Profiles *profile.Service
	Uploads  Uploads
	Session  Session
}

func NewFreelancerEditorHandler(ed *editor.Service, profiles *profile.Service, uploads Uploads, session Session) *FreelancerEditorHandler {
	return &FreelancerEditorHandler{Editor: ed, Profiles: profiles, Uploads: uploads, Session: session}
}

func (h *FreelancerEditorHandler) Routes(r fiber.Router, authMiddleware ...fiber.Handler) {
	g := r.Group("/freelancer/editor", authMiddleware...)
	g.Get("/", h.Get)
	g.Delete("/", h.Discard)
	g.Post("/photo", h.UploadPhoto)
	g.Patch("/personal", h.SavePersonal)
	g.Patch("/experience", h.SaveExperience)
	g.Patch("/achievement", h.SaveAchievement)
	g.Get("/overview", h.Overview)
	g.Post("/submit", h.Submit)
}

func draftOK(c *fiber.Ctx, d editor.Draft) error {
	return c.JSON(fiber.Map{
		"success": true,
		"data":    d,
	})
}

func (h *FreelancerEditorHandler) Get(c *fiber.Ctx) error {
	actor, err := getAuth(c)
	if err != nil {
		return apperrors.Respond(c, err)
	}
	d, err := h.Editor.Get(c.UserContext(), actor)
	if err != nil {
		return apperrors.Respond(c, err)
	}
	return draftOK(c, d)
}

func (h *FreelancerEditorHandler) SavePersonal(c *fiber.Ctx) error {
	actor, err := getAuth(c)
	if err != nil {
		return apperrors.Respond(c, err)
	}
	var req editor.Personal
	if err := parseBody(c, &req); err != nil {
		return apperrors.Respond(c, err)
	}
	d, err := h.Editor.SavePersonal(c.UserContext(), actor, req)
	if err != nil {
		return apperrors.Respond(c, err)
	}
	return draftOK(c, d)
}

func (h *FreelancerEditorHandler) SaveExperience(c *fiber.Ctx) error {
	actor, err := getAuth(c)
	if err != nil {
		return apperrors.Respond(c, err)
	}
	var req editor.Experience
	if err := parseBody(c, &req); err != nil {
		return apperrors.Respond(c, err)
	}
	d, err := h.Editor.SaveExperience(c.UserContext(), actor, req)
	if err != nil {
		return apperrors.Respond(c, err)
	}
	return draftOK(c, d)
}

func (h *FreelancerEditorHandler) SaveAchievement(c *fiber.Ctx) error {
	actor, err := getAuth(c)
	if err != nil {
		return apperrors.Respond(c, err)
	}
	var req editor.Achievement
	if err := parseBody(c, &req); err != nil {
		return apperrors.Respond(c, err)
	}
	d, err := h.Editor.SaveAchievement(c.UserContext(), actor, req)
	if err != nil {
		return apperrors.Respond(c, err)
	}
	return draftOK(c, d)
}

func (h *FreelancerEditorHandler) Overview(c *fiber.Ctx) error {
	actor, err := getAuth(c)
	if err != nil {
		return apperrors.Respond(c, err)
	}
	ov, err := h.Editor.Overview(c.UserContext(), actor)
	if err != nil {
		return apperrors.Respond(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    ov,
	})
}

func (h *FreelancerEditorHandler) Submit(c *fiber.Ctx) error {
	actor, err := getAuth(c)
	if err != nil {
		return apperrors.Respond(c, err)
	}
	if err := h.Editor.Submit(c.UserContext(), actor); err != nil {
		return apperrors.Respond(c, err)
	}
	if err := h.Session.Refresh(c, h.Profiles.DB, actor); err != nil {
		return apperrors.Respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "OK",
	})
}

func (h *FreelancerEditorHandler) Discard(c *fiber.Ctx) error {
	actor, err := getAuth(c)
	if err != nil {
		return apperrors.Respond(c, err)
	}
	if err := h.Editor.Discard(c.UserContext(), actor); err != nil {
		return apperrors.Respond(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Draft discarded",
	})
}

// UploadPhoto stores the avatar immediately; it is not part of the draft.
func (h *FreelancerEditorHandler) UploadPhoto(c *fiber.Ctx) error {
	actor, err := getAuth(c)
	if err != nil {
		return apperrors.Respond(c, err)
	}

	url, err := h.Uploads.SaveImage(c, "photo", "avatars/"+actor.UserID.String())
	if err != nil {
		return apperrors.Respond(c, err)
	}
	if err := h.Profiles.SetImage(c.UserContext(), actor, actor.UserID, url); err != nil {
		return apperrors.Respond(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Photo uploaded",
		"data":    fiber.Map{"url": url},
	})
}
