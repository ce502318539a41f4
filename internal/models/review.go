package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Review struct {
	ID      uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	GigID   uuid.UUID  `gorm:"type:uuid;index;not null" json:"gig_id"`
	UserID  uuid.UUID  `gorm:"type:uuid;index;not null" json:"user_id"`
	OfferID *uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"offer_id,omitempty"`

	Message string `gorm:"type:text;not null" json:"message"`
	Rating  int    `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"` // 1-5

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User  *User  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Offer *Offer `gorm:"foreignKey:OfferID;constraint:OnDelete:SET NULL" json:"-"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) (err error) {
	ensureID(&r.ID)
	return
}
