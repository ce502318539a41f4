package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/apperrors"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/middleware"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/services/access"
)

// getAuth returns the caller attached by the JWT middleware.
func getAuth(c *fiber.Ctx) (access.Actor, error) {
	a, ok := middleware.Actor(c)
	if !ok {
		return access.Actor{}, fiber.ErrUnauthorized
	}
	return a, nil
}

func paramUUID(c *fiber.Ctx, name, what string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, apperrors.BadRequest("Invalid " + what + " ID")
	}
	return id, nil
}

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperrors.BadRequest("Invalid request body")
	}
	return nil
}
