package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/apperrors"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/middleware"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/services/access"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/services/profile"
)

type ProfileHandler struct {
	Profiles *profile.Service
	Session  Session
}

func NewProfileHandler(profiles *profile.Service, session Session) *ProfileHandler {
	return &ProfileHandler{Profiles: profiles, Session: session}
}

// GetProfile returns the aggregate behind a profile page. Offers and contact
// details are only included for the owner and admins.
func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	agg, err := h.Profiles.GetByUsername(c.UserContext(), c.Params("username"))
	if err != nil {
		return apperrors.Respond(c, err)
	}

	var viewer *access.Actor
	if a, ok := middleware.Actor(c); ok {
		viewer = &a
	}
	if !agg.VisibleTo(viewer) {
		return c.JSON(fiber.Map{
			"success": true,
			"data":    agg.Public(),
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"user":           agg.User,
			"freelancer":     agg.Freelancer,
			"receivedOffers": agg.ReceivedOffers,
		},
	})
}

// UpdateFreelancer replaces the freelancer aggregate of :userId.
func (h *ProfileHandler) UpdateFreelancer(c *fiber.Ctx) error {
	actor, err := getAuth(c)
	if err != nil {
		return apperrors.Respond(c, err)
	}
	userID, err := paramUUID(c, "userId", "user")
	if err != nil {
		return apperrors.Respond(c, err)
	}

	var req profile.FreelancerUpdate
	if err := parseBody(c, &req); err != nil {
		return apperrors.Respond(c, err)
	}

	if err := h.Profiles.UpdateFreelancer(c.UserContext(), actor, userID, req); err != nil {
		return apperrors.Respond(c, err)
	}

	if actor.UserID == userID {
		// role may have changed from client to freelancer
		if err := h.Session.Refresh(c, h.Profiles.DB, actor); err != nil {
			return apperrors.Respond(c, err)
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "OK",
	})
}

func (h *ProfileHandler) EditUsername(c *fiber.Ctx) error {
	actor, err := getAuth(c)
	if err != nil {
		return apperrors.Respond(c, err)
	}

	var req profile.UsernameInput
	if err := parseBody(c, &req); err != nil {
		return apperrors.Respond(c, err)
	}

	u, err := h.Profiles.EditUsername(c.UserContext(), actor, req)
	if err != nil {
		return apperrors.Respond(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Username updated",
		"data":    fiber.Map{"user": userSummary(u)},
	})
}

func (h *ProfileHandler) Me(c *fiber.Ctx) error {
	actor, err := getAuth(c)
	if err != nil {
		return apperrors.Respond(c, err)
	}

	agg, err := h.Profiles.GetByUserID(c.UserContext(), actor.UserID)
	if err != nil {
		return apperrors.Respond(c, err)
	}

	data := userSummary(agg.User)
	if agg.Freelancer != nil {
		data["freelancer_id"] = agg.Freelancer.ID
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}
