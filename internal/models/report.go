package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Report is an append-only moderation event against UserID. Rows are never
// updated; User.SuspensionCount mirrors their count.
type Report struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID  `gorm:"type:uuid;index;not null" json:"user_id"`
	ReporterID *uuid.UUID `gorm:"type:uuid;index" json:"reporter_id,omitempty"`
	Message    string     `gorm:"type:text" json:"message"`
	CreatedAt  time.Time  `json:"created_at"`

	User     *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Reporter *User `gorm:"foreignKey:ReporterID;constraint:OnDelete:SET NULL" json:"reporter,omitempty"`
}

func (r *Report) BeforeCreate(tx *gorm.DB) error {
	ensureID(&r.ID)
	return nil
}
