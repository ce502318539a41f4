package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OfferStatus string

const (
	OfferStatusPending   OfferStatus = "PENDING"
	OfferStatusAccepted  OfferStatus = "ACCEPTED"
	OfferStatusRejected  OfferStatus = "REJECTED"
	OfferStatusDelivered OfferStatus = "DELIVERED"
	OfferStatusCompleted OfferStatus = "COMPLETED"
)

// OfferStatuses lists every status in lifecycle order.
var OfferStatuses = []OfferStatus{
	OfferStatusPending,
	OfferStatusAccepted,
	OfferStatusRejected,
	OfferStatusDelivered,
	OfferStatusCompleted,
}

// offerTransitions is the legal next-state table. DELIVERED -> ACCEPTED is a
// revision request. REJECTED and COMPLETED are terminal.
var offerTransitions = map[OfferStatus][]OfferStatus{
	OfferStatusPending:   {OfferStatusAccepted, OfferStatusRejected},
	OfferStatusAccepted:  {OfferStatusDelivered},
	OfferStatusDelivered: {OfferStatusCompleted, OfferStatusAccepted},
	OfferStatusRejected:  {},
	OfferStatusCompleted: {},
}

func (s OfferStatus) Valid() bool {
	_, ok := offerTransitions[s]
	return ok
}

// AllowedNext returns the statuses s may move to, excluding s itself.
func (s OfferStatus) AllowedNext() []OfferStatus {
	next := offerTransitions[s]
	out := make([]OfferStatus, len(next))
	copy(out, next)
	return out
}

// CanTransition reports whether an offer in s may be set to next.
// Re-setting the current status is always allowed.
func (s OfferStatus) CanTransition(next OfferStatus) bool {
	if !s.Valid() || !next.Valid() {
		return false
	}
	if s == next {
		return true
	}
	for _, n := range offerTransitions[s] {
		if n == next {
			return true
		}
	}
	return false
}

func (s OfferStatus) IsTerminal() bool {
	return s.Valid() && len(offerTransitions[s]) == 0
}

// Offer links a Gig, the Freelancer proposing it and the client User
// receiving it.
type Offer struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	GigID        uuid.UUID `gorm:"type:uuid;index;not null" json:"gig_id"`
	FreelancerID uuid.UUID `gorm:"type:uuid;index;not null" json:"freelancer_id"`
	UserID       uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`

	Price      int64       `gorm:"not null" json:"price"`
	IsAccepted bool        `gorm:"not null;default:false" json:"is_accepted"`
	Status     OfferStatus `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Gig        *Gig        `gorm:"foreignKey:GigID" json:"gig,omitempty"`
	Freelancer *Freelancer `gorm:"foreignKey:FreelancerID" json:"freelancer,omitempty"`
	User       *User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (o *Offer) BeforeCreate(tx *gorm.DB) error {
	ensureID(&o.ID)
	if o.Status == "" {
		o.Status = OfferStatusPending
	}
	return nil
}
