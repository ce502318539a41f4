package apperrors

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/logger"
)

// Respond writes err as the standard {success:false, message, errors?} envelope.
func Respond(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{
			"success": false,
			"message": fe.Message,
		})
	}

	appErr := From(err)
	if appErr.HTTPCode >= fiber.StatusInternalServerError {
		logger.Error("request failed",
			"method", c.Method(),
			"path", c.Path(),
			"error", err,
		)
	}

	body := fiber.Map{
		"success": false,
		"message": appErr.Message,
		"code":    appErr.Code,
	}
	if appErr.Details != nil {
		body["errors"] = appErr.Details
	}
	return c.Status(appErr.HTTPCode).JSON(body)
}

// FiberErrorHandler plugs Respond into fiber.Config.ErrorHandler so errors
// returned from middleware share the same envelope.
func FiberErrorHandler(c *fiber.Ctx, err error) error {
	return Respond(c, err)
}
