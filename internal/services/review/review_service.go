package review

import (
	"context"
	"errors"
	"net/http"
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

var (
	ErrOfferNotCompleted = errors.New("no completed offer for this gig")
	ErrAlreadyReviewed   = errors.New("offer already reviewed")
)

type CreateInput struct {
	Message string    `json:"message" validate:"required,min=1,max=2000"`
	Rating  int       `json:"rating" validate:"required,gte=1,max=5"`
	GigID   uuid.UUID `json:"gigId" validate:"required"`
	UserID  uuid.UUID `json:"userId" validate:"required"`
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

// Create stores a review for gigID. The author needs a COMPLETED offer on
// the gig that has not been reviewed yet; each offer takes one review.
func (s *Service) Create(ctx context.Context, actor access.Actor, gigID uuid.UUID, in CreateInput) (*models.Review, error) {
	in.Message = strings.TrimSpace(in.Message)
	if err := validator.Struct(in); err != nil {
		return nil, validator.AsAppError(err)
	}
	if in.GigID != gigID {
		return nil, apperrors.BadRequest("Gig id does not match the URL")
	}
	if in.UserID != actor.UserID {
		return nil, apperrors.Forbidden("You can only review as yourself")
	}

	var (
		rev     models.Review
		ownerID uuid.UUID
	)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var g models.Gig
		if err := tx.Preload("Freelancer").First(&g, "id = ?", gigID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("Gig not found")
			}
			return err
		}
		if g.Freelancer != nil {
			ownerID = g.Freelancer.UserID
		}

		var completed []models.Offer
		if err := db.ForUpdate(tx).
			Where("gig_id = ? AND user_id = ? AND status = ?", gigID, in.UserID, models.OfferStatusCompleted).
			Order("updated_at ASC").
			Find(&completed).Error; err != nil {
			return err
		}
		if len(completed) == 0 {
			return apperrors.Wrap(ErrOfferNotCompleted, apperrors.CodeConflict,
				"You can only review a gig after its offer is completed", http.StatusConflict)
		}

		ids := make([]uuid.UUID, len(completed))
		for i, o := range completed {
			ids[i] = o.ID
		}
		var reviewed []uuid.UUID
		if err := tx.Model(&models.Review{}).Where("offer_id IN ?", ids).Pluck("offer_id", &reviewed).Error; err != nil {
			return err
		}
		done := make(map[uuid.UUID]bool, len(reviewed))
		for _, id := range reviewed {
			done[id] = true
		}

		var target *models.Offer
		for i := range completed {
			if !done[completed[i].ID] {
				target = &completed[i]
				break
			}
		}
		if target == nil {
			return alreadyReviewed()
		}

		rev = models.Review{
			GigID:   gigID,
			UserID:  in.UserID,
			OfferID: &target.ID,
			Message: in.Message,
			Rating:  in.Rating,
		}
		return insert(tx, &rev)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("review created", "review_id", rev.ID, "gig_id", gigID, "rating", rev.Rating)
	s.Notifier.Publish(ctx, realtime.Event{Resource: "gig", ID: gigID.String(), Action: "reviewed"}, ownerID)
	return &rev, nil
}

// insert creates rev, reporting a lost race on the offer_id unique index as
// ErrAlreadyReviewed.
func insert(tx *gorm.DB, rev *models.Review) error {
	err := tx.Create(rev).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return alreadyReviewed()
	}
	return err
}

func alreadyReviewed() error {
	return apperrors.Wrap(ErrAlreadyReviewed, apperrors.CodeConflict,
		"You have already reviewed this order", http.StatusConflict)
}

// AverageRating returns the mean rating over all gigs of a freelancer and
// the number of reviews it was computed from.
func (s *Service) AverageRating(ctx context.Context, freelancerID uuid.UUID) (float64, int64, error) {
	var row struct {
		Avg   float64
		Count int64
	}
	err := s.DB.WithContext(ctx).
		Model(&models.Review{}).
		Select("COALESCE(AVG(reviews.rating), 0) AS avg, COUNT(reviews.id) AS count").
		Joins("JOIN gigs ON gigs.id = reviews.gig_id").
		Where("gigs.freelancer_id = ?", freelancerID).
		Scan(&row).Error
	return row.Avg, row.Count, err
}
