package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleClient     Role = "client"
	RoleFreelancer Role = "freelancer"
	RoleAdmin      Role = "admin"
)

// MaxSuspension is the number of reports after which a user is considered
// fully suspended; further reports are rejected.
const MaxSuspension = 5

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username string    `gorm:"type:varchar(32);uniqueIndex;not null" json:"username"`
	Email    string    `gorm:"uniqueIndex;not null" json:"email,omitempty"`
	Name     string    `gorm:"not null" json:"name"`
	Image    string    `gorm:"type:text" json:"image"`

	Biography string `gorm:"type:text" json:"biography"`
	Phone     string `gorm:"type:varchar(30)" json:"phone,omitempty"`
	Location  string `gorm:"type:varchar(120)" json:"location"`

	Password string `gorm:"not null" json:"-"`
	Role     Role   `gorm:"type:varchar(20);not null;index" json:"role"`
	IsActive bool   `gorm:"default:true" json:"is_active"`

	// Derived from the number of Report rows targeting this user.
	SuspensionCount int `gorm:"not null;default:0;check:suspension_count >= 0 AND suspension_count <= 5" json:"suspension_count,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// HAS ONE freelancer (freelancers.user_id -> users.id)
	Freelancer *Freelancer `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"freelancer,omitempty"`
	// Offers this user received as a client.
	ReceivedOffers []Offer `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"received_offers,omitempty"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	ensureID(&u.ID)
	return nil
}

// IsSuspended reports whether the user reached the report cap.
func (u *User) IsSuspended() bool {
	return u.SuspensionCount >= MaxSuspension
}

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

// PublicUserColumns are the users columns safe to show to anyone. Use them to
// narrow preloads on public reads.
var PublicUserColumns = []string{
	"id", "username", "name", "image", "biography", "location", "role", "is_active", "created_at", "updated_at",
}

// PublicUser is how a user appears to everyone but themselves and admins.
type PublicUser struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	Image     string    `json:"image"`
	Biography string    `json:"biography"`
	Location  string    `json:"location"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) Public() *PublicUser {
	if u == nil {
		return nil
	}
	return &PublicUser{
		ID:        u.ID,
		Username:  u.Username,
		Name:      u.Name,
		Image:     u.Image,
		Biography: u.Biography,
		Location:  u.Location,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}
