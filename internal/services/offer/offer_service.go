package offer

import (
	"context"
	"errors"
	"fmt"
	"net/http"

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

var (
	ErrIllegalTransition = errors.New("illegal offer status transition")
	ErrUnknownStatus     = errors.New("unknown offer status")
)

type CreateInput struct {
	GigID  uuid.UUID `json:"gigId" validate:"required"`
	UserID uuid.UUID `json:"userId" validate:"required"`
	Price  int64     `json:"price" validate:"gte=0"`
}

type StatusInput struct {
	ID     uuid.UUID          `json:"id" validate:"required"`
	Status models.OfferStatus `json:"status" validate:"required"`
}

// View is an offer as returned to clients, with the statuses the UI may
// offer next.
type View struct {
	models.Offer
	AllowedNext []models.OfferStatus `json:"allowedNext"`
}

func newView(o *models.Offer) *View {
	return &View{Offer: *o, AllowedNext: o.Status.AllowedNext()}
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

// Create lets the freelancer owning in.GigID propose a PENDING offer to a
// client.
func (s *Service) Create(ctx context.Context, actor access.Actor, in CreateInput) (*View, error) {
	if err := validator.Struct(in); err != nil {
		return nil, validator.AsAppError(err)
	}

	gdb := s.DB.WithContext(ctx)

	var gig models.Gig
	if err := gdb.Preload("Freelancer").First(&gig, "id = ?", in.GigID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Gig not found")
		}
		return nil, err
	}
	if gig.Freelancer == nil || !actor.Owns(gig.Freelancer.UserID) {
		return nil, apperrors.Forbidden("Only the gig owner can send offers for it")
	}
	if in.UserID == gig.Freelancer.UserID {
		return nil, apperrors.BadRequest("Cannot send an offer to yourself")
	}

	var client models.User
	if err := gdb.Select("id").First(&client, "id = ?", in.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("User not found")
		}
		return nil, err
	}

	o := models.Offer{
		GigID:        gig.ID,
		FreelancerID: gig.FreelancerID,
		UserID:       client.ID,
		Price:        in.Price,
		Status:       models.OfferStatusPending,
	}
	if err := gdb.Create(&o).Error; err != nil {
		return nil, err
	}

	view, err := s.Get(ctx, actor, o.ID)
	if err != nil {
		return nil, err
	}

	logger.Info("offer created", "offer_id", o.ID, "gig_id", gig.ID, "client_id", client.ID)
	s.publish(ctx, &view.Offer, "created")
	return view, nil
}

// Get returns an offer to one of its two parties or an admin.
func (s *Service) Get(ctx context.Context, actor access.Actor, id uuid.UUID) (*View, error) {
	o, err := s.load(s.DB.WithContext(ctx), id)
	if err != nil {
		return nil, err
	}
	if !canSee(actor, o) {
		return nil, apperrors.Forbidden("You are not a party to this offer")
	}
	return newView(o), nil
}

// List returns offers the actor sent (as freelancer) or received (as client),
// newest first.
func (s *Service) List(ctx context.Context, actor access.Actor) ([]View, error) {
	var offers []models.Offer
	err := s.DB.WithContext(ctx).
		Preload("Gig").
		Preload("Freelancer.User").
		Preload("User").
		Where("user_id = ?", actor.UserID).
		Or("freelancer_id IN (?)", s.DB.Model(&models.Freelancer{}).Select("id").Where("user_id = ?", actor.UserID)).
		Order("created_at DESC").
		Find(&offers).Error
	if err != nil {
		return nil, err
	}

	out := make([]View, len(offers))
	for i := range offers {
		out[i] = *newView(&offers[i])
	}
	return out, nil
}

// UpdateStatus moves an offer to in.Status if the transition table and the
// actor's side of the deal allow it. Re-setting the current status succeeds
// without writing.
func (s *Service) UpdateStatus(ctx context.Context, actor access.Actor, in StatusInput) (*View, error) {
	if err := validator.Struct(in); err != nil {
		return nil, validator.AsAppError(err)
	}
	if !in.Status.Valid() {
		return nil, apperrors.Wrap(
			fmt.Errorf("%w: %q", ErrUnknownStatus, in.Status),
			apperrors.CodeBadRequest, "Unknown offer status", http.StatusBadRequest,
		)
	}

	var changed bool
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var o models.Offer
		if err := db.ForUpdate(tx).First(&o, "id = ?", in.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("Offer not found")
			}
			return err
		}

		var f models.Freelancer
		if err := tx.Select("id", "user_id").First(&f, "id = ?", o.FreelancerID).Error; err != nil {
			return err
		}
		o.Freelancer = &f

		if !canSee(actor, &o) {
			return apperrors.Forbidden("You are not a party to this offer")
		}
		if o.Status == in.Status {
			return nil
		}
		if !o.Status.CanTransition(in.Status) {
			return apperrors.Wrap(
				fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, o.Status, in.Status),
				apperrors.CodeIllegalTransition,
				fmt.Sprintf("Cannot change offer from %s to %s", o.Status, in.Status),
				http.StatusConflict,
			)
		}
		if !mayPerform(actor, &o, in.Status) {
			return apperrors.Forbidden(fmt.Sprintf("You cannot set this offer to %s", in.Status))
		}

		updates := map[string]any{"status": in.Status}
		switch in.Status {
		case models.OfferStatusAccepted:
			updates["is_accepted"] = true
		case models.OfferStatusRejected:
			updates["is_accepted"] = false
		}
		if err := tx.Model(&o).Updates(updates).Error; err != nil {
			return err
		}

		logger.Info("offer status changed", "offer_id", o.ID, "from", o.Status, "to", in.Status, "by", actor.UserID)
		changed = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	o, err := s.load(s.DB.WithContext(ctx), in.ID)
	if err != nil {
		return nil, err
	}
	if changed {
		s.publish(ctx, o, "status")
	}
	return newView(o), nil
}

func (s *Service) load(gdb *gorm.DB, id uuid.UUID) (*models.Offer, error) {
	var o models.Offer
	err := gdb.
		Preload("Gig").
		Preload("Freelancer.User").
		Preload("User").
		First(&o, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("Offer not found")
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *Service) publish(ctx context.Context, o *models.Offer, action string) {
	recipients := []uuid.UUID{o.UserID}
	if o.Freelancer != nil {
		recipients = append(recipients, o.Freelancer.UserID)
	}
	s.Notifier.Publish(ctx, realtime.Event{
		Resource: "offer",
		ID:       o.ID.String(),
		Action:   action,
		Data:     map[string]any{"status": o.Status},
	}, recipients...)
}

func canSee(actor access.Actor, o *models.Offer) bool {
	if actor.IsAdmin() || actor.UserID == o.UserID {
		return true
	}
	return o.Freelancer != nil && actor.UserID == o.Freelancer.UserID
}

// mayPerform applies the per-side rules: the client answers and closes the
// deal, the freelancer delivers.
func mayPerform(actor access.Actor, o *models.Offer, next models.OfferStatus) bool {
	if actor.IsAdmin() {
		return true
	}
	switch next {
	case models.OfferStatusDelivered:
		return o.Freelancer != nil && actor.UserID == o.Freelancer.UserID
	case models.OfferStatusAccepted, models.OfferStatusRejected, models.OfferStatusCompleted:
		return actor.UserID == o.UserID
	}
	return false
}
