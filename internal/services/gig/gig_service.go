package gig

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/apperrors"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/logger"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/models"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/realtime"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/services/access"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/validator"
)

type CreateInput struct {
	Title       string     `json:"title" validate:"required,max=160"`
	Description string     `json:"description" validate:"max=5000"`
	From        int64      `json:"from" validate:"gte=0"`
	To          int64      `json:"to" validate:"gte=0,gtefield=From"`
	Revision    int        `json:"revision" validate:"gte=0,max=365"`
	CategoryID  *uuid.UUID `json:"categoryId"`
	Tags        []string   `json:"tags" validate:"max=10,dive,required,max=30"`
}

// EditInput replaces a gig's scalar fields. ID must match the gig in the URL.
type EditInput struct {
	ID          uuid.UUID `json:"id" validate:"required"`
	Title       string    `json:"title" validate:"required,max=160"`
	Description string    `json:"description" validate:"max=5000"`
	From        int64     `json:"from" validate:"gte=0"`
	To          int64     `json:"to" validate:"gte=0,gtefield=From"`
	Revision    int       `json:"revision" validate:"gte=0,max=365"`
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

func (s *Service) Create(ctx context.Context, actor access.Actor, in CreateInput) (*models.Gig, error) {
	if err := validator.Struct(in); err != nil {
		return nil, validator.AsAppError(err)
	}

	gdb := s.DB.WithContext(ctx)

	var f models.Freelancer
	if err := gdb.First(&f, "user_id = ?", actor.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Forbidden("Complete your freelancer profile before creating gigs")
		}
		return nil, err
	}

	if in.CategoryID != nil {
		if err := gdb.Select("id").First(&models.Category{}, "id = ?", *in.CategoryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.Validation(map[string]string{"categoryId": "Unknown category"})
			}
			return nil, err
		}
	}

	g := models.Gig{
		FreelancerID: f.ID,
		CategoryID:   in.CategoryID,
		Title:        strings.TrimSpace(in.Title),
		Description:  strings.TrimSpace(in.Description),
		From:         in.From,
		To:           in.To,
		Revision:     in.Revision,
		Tags:         datatypes.JSONSlice[string](normalizeTags(in.Tags)),
	}
	if err := gdb.Create(&g).Error; err != nil {
		return nil, err
	}

	logger.Info("gig created", "gig_id", g.ID, "freelancer_id", f.ID)
	s.Notifier.Publish(ctx, realtime.Event{Resource: "gig", ID: g.ID.String(), Action: "created"}, actor.UserID)
	return s.Get(ctx, g.ID)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Gig, error) {
	var g models.Gig
	err := s.DB.WithContext(ctx).
		Preload("Category").
		Preload("Thumbnails", func(tx *gorm.DB) *gorm.DB { return tx.Order("created_at ASC") }).
		Preload("Reviews", func(tx *gorm.DB) *gorm.DB { return tx.Order("created_at DESC") }).
		Preload("Reviews.User", publicUser).
		Preload("Freelancer.User", publicUser).
		First(&g, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("Gig not found")
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// ListByFreelancer returns a freelancer's gigs, newest first.
func (s *Service) ListByFreelancer(ctx context.Context, freelancerID uuid.UUID) ([]models.Gig, error) {
	gdb := s.DB.WithContext(ctx)

	var n int64
	if err := gdb.Model(&models.Freelancer{}).Where("id = ?", freelancerID).Count(&n).Error; err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, apperrors.NotFound("Freelancer not found")
	}

	gigs := []models.Gig{}
	err := gdb.
		Preload("Category").
		Preload("Thumbnails").
		Where("freelancer_id = ?", freelancerID).
		Order("created_at DESC").
		Find(&gigs).Error
	return gigs, err
}

// Edit overwrites the gig's scalars. Concurrent edits are last-writer-wins.
func (s *Service) Edit(ctx context.Context, actor access.Actor, id uuid.UUID, in EditInput) (*models.Gig, error) {
	if err := validator.Struct(in); err != nil {
		return nil, validator.AsAppError(err)
	}
	if in.ID != id {
		return nil, apperrors.BadRequest("Gig id does not match the URL")
	}

	g, ownerID, err := s.owned(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.Owns(ownerID) {
		return nil, apperrors.Forbidden("You can only edit your own gigs")
	}

	if err := s.DB.WithContext(ctx).Model(g).Updates(map[string]any{
		"title":       strings.TrimSpace(in.Title),
		"description": strings.TrimSpace(in.Description),
		"price_from":  in.From,
		"price_to":    in.To,
		"revision":    in.Revision,
	}).Error; err != nil {
		return nil, err
	}

	s.Notifier.Publish(ctx, realtime.Event{Resource: "gig", ID: id.String(), Action: "updated"}, ownerID)
	return s.Get(ctx, id)
}

// Delete removes a gig with its thumbnails, reviews and offers.
func (s *Service) Delete(ctx context.Context, actor access.Actor, id uuid.UUID) error {
	g, ownerID, err := s.owned(ctx, id)
	if err != nil {
		return err
	}
	if !actor.Owns(ownerID) {
		return apperrors.Forbidden("You can only delete your own gigs")
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, child := range []any{&models.Thumbnail{}, &models.Review{}, &models.Offer{}} {
			if err := tx.Where("gig_id = ?", g.ID).Delete(child).Error; err != nil {
				return err
			}
		}
		res := tx.Delete(&models.Gig{}, "id = ?", g.ID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.NotFound("Gig not found")
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info("gig deleted", "gig_id", id, "by", actor.UserID)
	s.Notifier.Publish(ctx, realtime.Event{Resource: "gig", ID: id.String(), Action: "deleted"}, ownerID)
	return nil
}

// AddThumbnail records an already stored image for the gig.
func (s *Service) AddThumbnail(ctx context.Context, actor access.Actor, gigID uuid.UUID, url string) (*models.Thumbnail, error) {
	g, ownerID, err := s.owned(ctx, gigID)
	if err != nil {
		return nil, err
	}
	if !actor.Owns(ownerID) {
		return nil, apperrors.Forbidden("You can only upload thumbnails to your own gigs")
	}

	th := models.Thumbnail{GigID: g.ID, URL: url}
	if err := s.DB.WithContext(ctx).Create(&th).Error; err != nil {
		return nil, err
	}

	s.Notifier.Publish(ctx, realtime.Event{Resource: "gig", ID: g.ID.String(), Action: "thumbnail"}, ownerID)
	return &th, nil
}

// CanUpload is the ownership check done before a file is written to disk.
func (s *Service) CanUpload(ctx context.Context, actor access.Actor, gigID uuid.UUID) error {
	_, ownerID, err := s.owned(ctx, gigID)
	if err != nil {
		return err
	}
	if !actor.Owns(ownerID) {
		return apperrors.Forbidden("You can only upload thumbnails to your own gigs")
	}
	return nil
}

func (s *Service) Categories(ctx context.Context) ([]models.Category, error) {
	out := []models.Category{}
	err := s.DB.WithContext(ctx).Order("name ASC").Find(&out).Error
	return out, err
}

func (s *Service) Technologies(ctx context.Context) ([]models.Technology, error) {
	out := []models.Technology{}
	err := s.DB.WithContext(ctx).Order("name ASC").Find(&out).Error
	return out, err
}

// owned loads the gig together with the user id of its freelancer.
func (s *Service) owned(ctx context.Context, id uuid.UUID) (*models.Gig, uuid.UUID, error) {
	var g models.Gig
	if err := s.DB.WithContext(ctx).Preload("Freelancer").First(&g, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, uuid.Nil, apperrors.NotFound("Gig not found")
		}
		return nil, uuid.Nil, err
	}
	if g.Freelancer == nil {
		return nil, uuid.Nil, apperrors.NotFound("Gig not found")
	}
	return &g, g.Freelancer.UserID, nil
}

func normalizeTags(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, t := range in {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

func publicUser(tx *gorm.DB) *gorm.DB {
	return tx.Select(models.PublicUserColumns)
}
