package access

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/models"
)

func TestOwns(t *testing.T) {
	me, other := uuid.New(), uuid.New()

	assert.True(t, Actor{UserID: me, Role: models.RoleClient}.Owns(me))
	assert.False(t, Actor{UserID: me, Role: models.RoleClient}.Owns(other))
	assert.True(t, Actor{UserID: me, Role: models.RoleAdmin}.Owns(other))
	assert.False(t, Actor{}.Owns(uuid.Nil))
}
