package profile

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/apperrors"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/db"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/logger"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/models"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/realtime"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/services/access"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/validator"
)

// Aggregate is everything the profile page renders. Freelancer is nil for
// pure clients.
type Aggregate struct {
	User           *models.User       `json:"user"`
	Freelancer     *models.Freelancer `json:"freelancer"`
	ReceivedOffers []models.Offer     `json:"received_offers"`
}

type SkillInput struct {
	TechnologyID uuid.UUID `json:"technologyId" validate:"required"`
}

type EducationInput struct {
	School string `json:"school" validate:"required,max=160"`
	Degree string `json:"degree" validate:"max=120"`
	Area   string `json:"area" validate:"max=120"`
	From   string `json:"from" validate:"max=40"`
	To     string `json:"to" validate:"max=40"`
}

type EmploymentInput struct {
	Company  string `json:"company" validate:"required,max=160"`
	Position string `json:"position" validate:"max=120"`
	From     string `json:"from" validate:"max=40"`
	To       string `json:"to" validate:"max=40"`
}

type TestimonialInput struct {
	Name     string `json:"name" validate:"required,max=120"`
	Email    string `json:"email" validate:"omitempty,email,max=150"`
	Position string `json:"position" validate:"max=120"`
	Message  string `json:"message" validate:"required,max=2000"`
}

// FreelancerUpdate is the full edited aggregate. Collections replace the
// stored ones wholesale.
type FreelancerUpdate struct {
	Biography    string             `json:"biography" validate:"max=2000"`
	Phone        string             `json:"phone" validate:"max=30"`
	Location     string             `json:"location" validate:"max=120"`
	Skills       []SkillInput       `json:"skills" validate:"max=50,dive"`
	Educations   []EducationInput   `json:"educations" validate:"max=20,dive"`
	Employments  []EmploymentInput  `json:"employments" validate:"max=30,dive"`
	Testimonials []TestimonialInput `json:"testimonials" validate:"max=30,dive"`
}

type UsernameInput struct {
	ID       uuid.UUID `json:"id" validate:"required"`
	Username string    `json:"username" validate:"required,min=3,max=32,username"`
}

type Service struct {
	DB       *gorm.DB
	Notifier realtime.Publisher
}

func NewService(gdb *gorm.DB, notifier realtime.Publisher) *Service {
	if notifier == nil {
		notifier = realtime.Discard{}
	}
	return &Service{DB: gdb, Notifier: notifier}
}

// GetByUsername loads the profile aggregate for username.
func (s *Service) GetByUsername(ctx context.Context, username string) (*Aggregate, error) {
	return s.load(ctx, "username = ?", strings.TrimSpace(username))
}

func (s *Service) GetByUserID(ctx context.Context, userID uuid.UUID) (*Aggregate, error) {
	return s.load(ctx, "id = ?", userID)
}

func (s *Service) load(ctx context.Context, where string, arg any) (*Aggregate, error) {
	gdb := s.DB.WithContext(ctx)

	var user models.User
	err := gdb.
		Preload("ReceivedOffers", func(tx *gorm.DB) *gorm.DB { return tx.Order("created_at DESC") }).
		Preload("ReceivedOffers.Gig").
		Preload("ReceivedOffers.Freelancer.User").
		Where(where, arg).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("User not found")
	}
	if err != nil {
		return nil, err
	}

	agg := &Aggregate{User: &user, ReceivedOffers: user.ReceivedOffers}
	user.ReceivedOffers = nil

	var f models.Freelancer
	err = gdb.
		Preload("Skills", orderBySort).
		Preload("Skills.Technology").
		Preload("Educations", orderBySort).
		Preload("Employments", orderBySort).
		Preload("Testimonials", orderBySort).
		Preload("Gigs", func(tx *gorm.DB) *gorm.DB { return tx.Order("created_at DESC") }).
		Preload("Gigs.Category").
		Preload("Gigs.Thumbnails").
		Preload("Gigs.Reviews", func(tx *gorm.DB) *gorm.DB { return tx.Order("created_at DESC") }).
		Preload("Offers", func(tx *gorm.DB) *gorm.DB { return tx.Order("created_at DESC") }).
		Preload("Offers.Gig").
		Preload("Offers.User").
		Where("user_id = ?", user.ID).
		First(&f).Error
	switch {
	case err == nil:
		agg.Freelancer = &f
	case errors.Is(err, gorm.ErrRecordNotFound):
	default:
		return nil, err
	}

	if agg.ReceivedOffers == nil {
		agg.ReceivedOffers = []models.Offer{}
	}
	return agg, nil
}

// PublicProfile is the aggregate as seen by anyone other than its owner or
// an admin: no contact details, no offers.
type PublicProfile struct {
	User       *models.PublicUser `json:"user"`
	Freelancer *models.Freelancer `json:"freelancer"`
}

// VisibleTo reports whether viewer may see the private parts of the
// aggregate. A nil viewer is anonymous.
func (a *Aggregate) VisibleTo(viewer *access.Actor) bool {
	return viewer != nil && viewer.Owns(a.User.ID)
}

func (a *Aggregate) Public() *PublicProfile {
	p := &PublicProfile{User: a.User.Public()}
	if a.Freelancer == nil {
		return p
	}

	f := *a.Freelancer
	f.User = nil
	f.Offers = nil
	f.Testimonials = make([]models.Testimonial, len(a.Freelancer.Testimonials))
	for i, t := range a.Freelancer.Testimonials {
		t.Email = ""
		f.Testimonials[i] = t
	}
	p.Freelancer = &f
	return p
}

func orderBySort(tx *gorm.DB) *gorm.DB {
	return tx.Order("sort_order ASC")
}

// UpdateFreelancer applies in to userID in a single transaction: user
// scalars first, then every owned collection is deleted and re-inserted.
// A failure at any point leaves the previous profile intact.
func (s *Service) UpdateFreelancer(ctx context.Context, actor access.Actor, userID uuid.UUID, in FreelancerUpdate) error {
	if err := validator.Struct(in); err != nil {
		return validator.AsAppError(err)
	}
	if !actor.Owns(userID) {
		return apperrors.Forbidden("You can only edit your own profile")
	}

	skills := dedupeSkills(in.Skills)

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := db.ForUpdate(tx).First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("User not found")
			}
			return err
		}

		if err := tx.Model(&user).Updates(map[string]any{
			"biography": strings.TrimSpace(in.Biography),
			"phone":     strings.TrimSpace(in.Phone),
			"location":  strings.TrimSpace(in.Location),
		}).Error; err != nil {
			return err
		}

		f, err := findOrCreateFreelancer(tx, &user)
		if err != nil {
			return err
		}

		if err := checkTechnologies(tx, skills); err != nil {
			return err
		}

		for _, owned := range []any{&models.Skill{}, &models.Education{}, &models.Employment{}, &models.Testimonial{}} {
			if err := tx.Where("freelancer_id = ?", f.ID).Delete(owned).Error; err != nil {
				return err
			}
		}

		return insertCollections(tx, f.ID, skills, in)
	})
	if err != nil {
		return err
	}

	logger.Info("freelancer profile replaced",
		"user_id", userID,
		"skills", len(skills),
		"educations", len(in.Educations),
		"employments", len(in.Employments),
		"testimonials", len(in.Testimonials),
	)
	s.Notifier.Publish(ctx, realtime.Event{Resource: "profile", ID: userID.String(), Action: "updated"}, userID)
	return nil
}

func findOrCreateFreelancer(tx *gorm.DB, user *models.User) (*models.Freelancer, error) {
	var f models.Freelancer
	err := tx.Where("user_id = ?", user.ID).First(&f).Error
	if err == nil {
		return &f, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	f = models.Freelancer{UserID: user.ID}
	if err := tx.Create(&f).Error; err != nil {
		return nil, err
	}

	if user.Role == models.RoleClient {
		if err := tx.Model(user).Update("role", models.RoleFreelancer).Error; err != nil {
			return nil, err
		}
	}
	return &f, nil
}

func checkTechnologies(tx *gorm.DB, skills []SkillInput) error {
	if len(skills) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(skills))
	for i, s := range skills {
		ids[i] = s.TechnologyID
	}

	var found int64
	if err := tx.Model(&models.Technology{}).Where("id IN ?", ids).Count(&found).Error; err != nil {
		return err
	}
	if int(found) != len(ids) {
		return apperrors.Validation(map[string]string{"skills": "Unknown technology"})
	}
	return nil
}

func insertCollections(tx *gorm.DB, freelancerID uuid.UUID, skills []SkillInput, in FreelancerUpdate) error {
	if len(skills) > 0 {
		rows := make([]models.Skill, len(skills))
		for i, s := range skills {
			rows[i] = models.Skill{FreelancerID: freelancerID, TechnologyID: s.TechnologyID, SortOrder: i}
		}
		if err := tx.Create(&rows).Error; err != nil {
			return err
		}
	}

	if len(in.Educations) > 0 {
		rows := make([]models.Education, len(in.Educations))
		for i, e := range in.Educations {
			rows[i] = models.Education{
				FreelancerID: freelancerID,
				School:       strings.TrimSpace(e.School),
				Degree:       strings.TrimSpace(e.Degree),
				Area:         strings.TrimSpace(e.Area),
				From:         strings.TrimSpace(e.From),
				To:           strings.TrimSpace(e.To),
				SortOrder:    i,
			}
		}
		if err := tx.Create(&rows).Error; err != nil {
			return err
		}
	}

	if len(in.Employments) > 0 {
		rows := make([]models.Employment, len(in.Employments))
		for i, e := range in.Employments {
			rows[i] = models.Employment{
				FreelancerID: freelancerID,
				Company:      strings.TrimSpace(e.Company),
				Title:        strings.TrimSpace(e.Position),
				From:         strings.TrimSpace(e.From),
				To:           strings.TrimSpace(e.To),
				SortOrder:    i,
			}
		}
		if err := tx.Create(&rows).Error; err != nil {
			return err
		}
	}

	if len(in.Testimonials) > 0 {
		rows := make([]models.Testimonial, len(in.Testimonials))
		for i, t := range in.Testimonials {
			rows[i] = models.Testimonial{
				FreelancerID: freelancerID,
				Name:         strings.TrimSpace(t.Name),
				Email:        strings.ToLower(strings.TrimSpace(t.Email)),
				Title:        strings.TrimSpace(t.Position),
				Message:      strings.TrimSpace(t.Message),
				SortOrder:    i,
			}
		}
		if err := tx.Create(&rows).Error; err != nil {
			return err
		}
	}

	return nil
}

// dedupeSkills keeps the first occurrence of each technology.
func dedupeSkills(in []SkillInput) []SkillInput {
	seen := make(map[uuid.UUID]bool, len(in))
	out := make([]SkillInput, 0, len(in))
	for _, s := range in {
		if seen[s.TechnologyID] {
			continue
		}
		seen[s.TechnologyID] = true
		out = append(out, s)
	}
	return out
}

// EditUsername renames a user. Usernames are unique and case-sensitive.
func (s *Service) EditUsername(ctx context.Context, actor access.Actor, in UsernameInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	if err := validator.Struct(in); err != nil {
		return nil, validator.AsAppError(err)
	}
	if !actor.Owns(in.ID) {
		return nil, apperrors.Forbidden("You can only edit your own username")
	}

	var user models.User
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, "id = ?", in.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("User not found")
			}
			return err
		}
		if user.Username == in.Username {
			return nil
		}

		var taken int64
		if err := tx.Model(&models.User{}).
			Where("username = ? AND id <> ?", in.Username, in.ID).
			Count(&taken).Error; err != nil {
			return err
		}
		if taken > 0 {
			return apperrors.Conflict("Username is already taken")
		}

		if err := tx.Model(&user).Update("username", in.Username).Error; err != nil {
			return err
		}
		user.Username = in.Username
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Notifier.Publish(ctx, realtime.Event{Resource: "user", ID: user.ID.String(), Action: "renamed"}, user.ID)
	return &user, nil
}

// SetImage points the user's avatar at an uploaded file.
func (s *Service) SetImage(ctx context.Context, actor access.Actor, userID uuid.UUID, url string) error {
	if !actor.Owns(userID) {
		return apperrors.Forbidden("You can only edit your own profile")
	}
	res := s.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Update("image", url)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("User not found")
	}
	s.Notifier.Publish(ctx, realtime.Event{Resource: "profile", ID: userID.String(), Action: "image"}, userID)
	return nil
}
