package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Freelancer extends a User with a service-provider profile. Every owned
// collection is removed together with the freelancer.
type Freelancer struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`

	Skills       []Skill       `gorm:"foreignKey:FreelancerID;constraint:OnDelete:CASCADE" json:"skills"`
	Educations   []Education   `gorm:"foreignKey:FreelancerID;constraint:OnDelete:CASCADE" json:"educations"`
	Employments  []Employment  `gorm:"foreignKey:FreelancerID;constraint:OnDelete:CASCADE" json:"employments"`
	Testimonials []Testimonial `gorm:"foreignKey:FreelancerID;constraint:OnDelete:CASCADE" json:"testimonials"`
	Gigs         []Gig         `gorm:"foreignKey:FreelancerID;constraint:OnDelete:CASCADE" json:"gigs"`
	Offers       []Offer       `gorm:"foreignKey:FreelancerID;constraint:OnDelete:CASCADE" json:"offers,omitempty"`
}

func (f *Freelancer) BeforeCreate(tx *gorm.DB) error {
	ensureID(&f.ID)
	return nil
}

type Technology struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name string    `gorm:"type:varchar(80);uniqueIndex;not null" json:"name"`
}

func (t *Technology) BeforeCreate(tx *gorm.DB) error {
	ensureID(&t.ID)
	return nil
}

// Skill joins a Freelancer and a Technology.
type Skill struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FreelancerID uuid.UUID `gorm:"type:uuid;index;not null" json:"freelancer_id"`
	TechnologyID uuid.UUID `gorm:"type:uuid;index;not null" json:"technology_id"`
	SortOrder    int       `gorm:"not null;default:0" json:"-"`

	Technology *Technology `gorm:"foreignKey:TechnologyID;constraint:OnDelete:CASCADE" json:"technology,omitempty"`
}

func (s *Skill) BeforeCreate(tx *gorm.DB) error {
	ensureID(&s.ID)
	return nil
}

// Education dates are free text ("2019", "Sep 2020", ...).
type Education struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FreelancerID uuid.UUID `gorm:"type:uuid;index;not null" json:"freelancer_id"`
	School       string    `gorm:"type:varchar(160)" json:"school"`
	Degree       string    `gorm:"type:varchar(120)" json:"degree"`
	Area         string    `gorm:"type:varchar(120)" json:"area"`
	From         string    `gorm:"column:from_date;type:varchar(40)" json:"from"`
	To           string    `gorm:"column:to_date;type:varchar(40)" json:"to"`
	SortOrder    int       `gorm:"not null;default:0" json:"-"`
}

func (e *Education) BeforeCreate(tx *gorm.DB) error {
	ensureID(&e.ID)
	return nil
}

type Employment struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FreelancerID uuid.UUID `gorm:"type:uuid;index;not null" json:"freelancer_id"`
	Company      string    `gorm:"type:varchar(160)" json:"company"`
	Title        string    `gorm:"type:varchar(120)" json:"position"`
	From         string    `gorm:"column:from_date;type:varchar(40)" json:"from"`
	To           string    `gorm:"column:to_date;type:varchar(40)" json:"to"`
	SortOrder    int       `gorm:"not null;default:0" json:"-"`
}

func (e *Employment) BeforeCreate(tx *gorm.DB) error {
	ensureID(&e.ID)
	return nil
}

type Testimonial struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FreelancerID uuid.UUID `gorm:"type:uuid;index;not null" json:"freelancer_id"`
	Name         string    `gorm:"type:varchar(120)" json:"name"`
	Email        string    `gorm:"type:varchar(150)" json:"email,omitempty"`
	Title        string    `gorm:"type:varchar(120)" json:"position"`
	Message      string    `gorm:"type:text" json:"message"`
	SortOrder    int       `gorm:"not null;default:0" json:"-"`
}

func (t *Testimonial) BeforeCreate(tx *gorm.DB) error {
	ensureID(&t.ID)
	return nil
}
