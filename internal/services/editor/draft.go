// Package editor holds the multi-step freelancer profile draft. Steps are
// saved independently and submitted together as one aggregate update.
package editor

import (
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/services/profile"
)

type Personal struct {
	Biography string `json:"biography"`
	Phone     string `json:"phone"`
	Location  string `json:"location"`
}

type Experience struct {
	Skills      []profile.SkillInput      `json:"skills"`
	Employments []profile.EmploymentInput `json:"employments"`
}

type Achievement struct {
	Educations   []profile.EducationInput   `json:"educations"`
	Testimonials []profile.TestimonialInput `json:"testimonials"`
}

// Draft is immutable: the With* methods return an updated copy.
type Draft struct {
	Personal    Personal    `json:"personal"`
	Experience  Experience  `json:"experience"`
	Achievement Achievement `json:"achievement"`
}

func (d Draft) WithPersonal(p Personal) Draft {
	d.Personal = p
	return d
}

func (d Draft) WithExperience(e Experience) Draft {
	d.Experience = Experience{
		Skills:      cloneSlice(e.Skills),
		Employments: cloneSlice(e.Employments),
	}
	return d
}

func (d Draft) WithAchievement(a Achievement) Draft {
	d.Achievement = Achievement{
		Educations:   cloneSlice(a.Educations),
		Testimonials: cloneSlice(a.Testimonials),
	}
	return d
}

// ToUpdate flattens the draft into the aggregate write payload.
func (d Draft) ToUpdate() profile.FreelancerUpdate {
	return profile.FreelancerUpdate{
		Biography:    d.Personal.Biography,
		Phone:        d.Personal.Phone,
		Location:     d.Personal.Location,
		Skills:       cloneSlice(d.Experience.Skills),
		Employments:  cloneSlice(d.Experience.Employments),
		Educations:   cloneSlice(d.Achievement.Educations),
		Testimonials: cloneSlice(d.Achievement.Testimonials),
	}
}

// FromAggregate seeds a draft with what is currently stored.
func FromAggregate(agg *profile.Aggregate) Draft {
	var d Draft
	if agg == nil || agg.User == nil {
		return d.normalized()
	}

	d.Personal = Personal{
		Biography: agg.User.Biography,
		Phone:     agg.User.Phone,
		Location:  agg.User.Location,
	}

	f := agg.Freelancer
	if f == nil {
		return d.normalized()
	}
	for _, s := range f.Skills {
		d.Experience.Skills = append(d.Experience.Skills, profile.SkillInput{TechnologyID: s.TechnologyID})
	}
	for _, e := range f.Employments {
		d.Experience.Employments = append(d.Experience.Employments, profile.EmploymentInput{
			Company: e.Company, Position: e.Title, From: e.From, To: e.To,
		})
	}
	for _, e := range f.Educations {
		d.Achievement.Educations = append(d.Achievement.Educations, profile.EducationInput{
			School: e.School, Degree: e.Degree, Area: e.Area, From: e.From, To: e.To,
		})
	}
	for _, t := range f.Testimonials {
		d.Achievement.Testimonials = append(d.Achievement.Testimonials, profile.TestimonialInput{
			Name: t.Name, Email: t.Email, Position: t.Title, Message: t.Message,
		})
	}
	return d.normalized()
}

// normalized replaces nil collections with empty ones so JSON clients always
// see arrays.
func (d Draft) normalized() Draft {
	if d.Experience.Skills == nil {
		d.Experience.Skills = []profile.SkillInput{}
	}
	if d.Experience.Employments == nil {
		d.Experience.Employments = []profile.EmploymentInput{}
	}
	if d.Achievement.Educations == nil {
		d.Achievement.Educations = []profile.EducationInput{}
	}
	if d.Achievement.Testimonials == nil {
		d.Achievement.Testimonials = []profile.TestimonialInput{}
	}
	return d
}

func cloneSlice[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	return out
}
