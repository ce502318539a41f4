package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Category struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name string    `gorm:"type:varchar(80);uniqueIndex;not null" json:"name"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	ensureID(&c.ID)
	return nil
}

// Gig is a service listing. Prices are whole currency units; From <= To is
// checked on create/edit, not by the database.
type Gig struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	FreelancerID uuid.UUID  `gorm:"type:uuid;index;not null" json:"freelancer_id"`
	CategoryID   *uuid.UUID `gorm:"type:uuid;index" json:"category_id,omitempty"`

	Title       string `gorm:"type:varchar(160);not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	From        int64  `gorm:"column:price_from;not null;default:0" json:"from"`
	To          int64  `gorm:"column:price_to;not null;default:0" json:"to"`
	Revision    int    `gorm:"not null;default:0" json:"revision"` // revision period in days

	Tags datatypes.JSONSlice[string] `json:"tags"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Freelancer *Freelancer `gorm:"foreignKey:FreelancerID" json:"freelancer,omitempty"`
	Category   *Category   `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL" json:"category,omitempty"`
	Thumbnails []Thumbnail `gorm:"foreignKey:GigID;constraint:OnDelete:CASCADE" json:"thumbnails"`
	Reviews    []Review    `gorm:"foreignKey:GigID;constraint:OnDelete:CASCADE" json:"reviews"`
	Offers     []Offer     `gorm:"foreignKey:GigID;constraint:OnDelete:CASCADE" json:"-"`
}

func (g *Gig) BeforeCreate(tx *gorm.DB) error {
	ensureID(&g.ID)
	return nil
}

type Thumbnail struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	GigID     uuid.UUID `gorm:"type:uuid;index;not null" json:"gig_id"`
	URL       string    `gorm:"type:text;not null" json:"url"`
	CreatedAt time.Time `json:"created_at"`
}

func (t *Thumbnail) BeforeCreate(tx *gorm.DB) error {
	ensureID(&t.ID)
	return nil
}
