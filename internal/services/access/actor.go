// Package access holds the authenticated caller passed into services.
package access

import (
	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/models"
)

type Actor struct {
	UserID uuid.UUID
	Role   models.Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// Owns reports whether the actor may act on behalf of userID.
func (a Actor) Owns(userID uuid.UUID) bool {
	return a.IsAdmin() || (a.UserID != uuid.Nil && a.UserID == userID)
}
