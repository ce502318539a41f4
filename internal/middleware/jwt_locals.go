package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/models"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/services/access"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/utils"
)

func claimsOf(c *fiber.Ctx) (*utils.Claims, bool) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return nil, false
	}
	claims, ok := token.Claims.(*utils.Claims)
	return claims, ok
}

// AttachJWTLocals copies the verified claims into Locals("userId") and
// Locals("role").
func AttachJWTLocals() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := claimsOf(c)
		if !ok || !attachClaims(c, claims) {
			return fiber.ErrUnauthorized
		}
		return c.Next()
	}
}

// OptionalJWT attaches the caller when a valid token is present. Requests
// without one, or with a bad one, continue anonymously.
func OptionalJWT(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenStr := tokenFrom(c)
		if tokenStr == "" {
			return c.Next()
		}
		token, claims, err := utils.ParseJWT(secret, tokenStr)
		if err != nil {
			return c.Next()
		}
		if attachClaims(c, claims) {
			c.Locals("user", token)
		}
		return c.Next()
	}
}

func attachClaims(c *fiber.Ctx, claims *utils.Claims) bool {
	uid := strings.TrimSpace(claims.UserID)
	if _, err := uuid.Parse(uid); err != nil {
		return false
	}
	c.Locals("userId", uid)
	c.Locals("role", strings.ToLower(strings.TrimSpace(claims.Role)))
	return true
}

// Actor returns the authenticated caller set by AttachJWTLocals.
func Actor(c *fiber.Ctx) (access.Actor, bool) {
	uidStr, _ := c.Locals("userId").(string)
	uid, err := uuid.Parse(uidStr)
	if err != nil {
		return access.Actor{}, false
	}
	role, _ := c.Locals("role").(string)
	return access.Actor{UserID: uid, Role: models.Role(role)}, true
}
