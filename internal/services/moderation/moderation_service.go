// Package moderation keeps the append-only report log and the suspension
// counter derived from it.
package moderation

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

var ErrSuspensionCapReached = errors.New("maximum suspension reached")

type ReportInput struct {
	UserID  uuid.UUID `json:"userId" validate:"required"`
	Message string    `json:"message" validate:"max=2000"`
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

// Report appends a report against in.UserID and sets the user's suspension
// counter to the number of reports. Once the counter is at
// models.MaxSuspension further reports are refused.
func (s *Service) Report(ctx context.Context, actor access.Actor, in ReportInput) (*models.User, error) {
	in.Message = strings.TrimSpace(in.Message)
	if err := validator.Struct(in); err != nil {
		return nil, validator.AsAppError(err)
	}

	var user models.User
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := db.ForUpdate(tx).First(&user, "id = ?", in.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("User not found")
			}
			return err
		}
		if actor.UserID == user.ID {
			return apperrors.BadRequest("You cannot report yourself")
		}

		var count int64
		if err := tx.Model(&models.Report{}).Where("user_id = ?", user.ID).Count(&count).Error; err != nil {
			return err
		}
		if count >= models.MaxSuspension {
			return apperrors.Wrap(ErrSuspensionCapReached, apperrors.CodeSuspensionCap,
				"Maximum suspension reached", http.StatusBadRequest)
		}

		r := models.Report{UserID: user.ID, Message: in.Message}
		if actor.UserID != uuid.Nil {
			r.ReporterID = &actor.UserID
		}
		if err := tx.Create(&r).Error; err != nil {
			return err
		}

		next := int(count) + 1
		if err := tx.Model(&user).Update("suspension_count", next).Error; err != nil {
			return err
		}
		user.SuspensionCount = next
		return nil
	})
	if err != nil {
		return nil, err
	}

	log := logger.With("user_id", user.ID)
	log.Info("user reported", "reporter_id", actor.UserID, "suspension_count", user.SuspensionCount)
	if user.IsSuspended() {
		log.Warn("user reached suspension cap")
	}
	s.Notifier.Publish(ctx, realtime.Event{Resource: "user", ID: user.ID.String(), Action: "reported"}, user.ID)
	return &user, nil
}

// ListReports returns the audit log for userID, newest first. Admin only.
func (s *Service) ListReports(ctx context.Context, actor access.Actor, userID uuid.UUID) ([]models.Report, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.Forbidden("Admin access required")
	}

	gdb := s.DB.WithContext(ctx)

	var n int64
	if err := gdb.Model(&models.User{}).Where("id = ?", userID).Count(&n).Error; err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, apperrors.NotFound("User not found")
	}

	reports := []models.Report{}
	err := gdb.
		Preload("Reporter").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&reports).Error
	return reports, err
}
