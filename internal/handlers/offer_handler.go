package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/apperrors"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/services/offer"
)

type OfferHandler struct {
	Offers *offer.Service
}

func NewOfferHandler(offers *offer.Service) *OfferHandler {
	return &OfferHandler{Offers: offers}
}

// CreateOffer lets a freelancer propose one of their gigs to a client.
func (h *OfferHandler) CreateOffer(c *fiber.Ctx) error {
	actor, err := getAuth(c)
	if err != nil {
		return apperrors.Respond(c, err)
	}

	var req offer.CreateInput
	if err := parseBody(c, &req); err != nil {
		return apperrors.Respond(c, err)
	}

	o, err := h.Offers.Create(c.UserContext(), actor, req)
	if err != nil {
		return apperrors.Respond(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Offer sent",
		"data":    o,
	})
}

func (h *OfferHandler) GetOffer(c *fiber.Ctx) error {
	actor, err := getAuth(c)
	if err != nil {
		return apperrors.Respond(c, err)
	}
	id, err := paramUUID(c, "id", "offer")
	if err != nil {
		return apperrors.Respond(c, err)
	}

	o, err := h.Offers.Get(c.UserContext(), actor, id)
	if err != nil {
		return apperrors.Respond(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    o,
	})
}

func (h *OfferHandler) GetOffers(c *fiber.Ctx) error {
	actor, err := getAuth(c)
	if err != nil {
		return apperrors.Respond(c, err)
	}

	offers, err := h.Offers.List(c.UserContext(), actor)
	if err != nil {
		return apperrors.Respond(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    offers,
	})
}

// UpdateStatus handles PUT /offer/update-status {id, status}.
func (h *OfferHandler) UpdateStatus(c *fiber.Ctx) error {
	actor, err := getAuth(c)
	if err != nil {
		return apperrors.Respond(c, err)
	}

	var req offer.StatusInput
	if err := parseBody(c, &req); err != nil {
		return apperrors.Respond(c, err)
	}

	o, err := h.Offers.UpdateStatus(c.UserContext(), actor, req)
	if err != nil {
		return apperrors.Respond(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Offer status updated",
		"data":    o,
	})
}
