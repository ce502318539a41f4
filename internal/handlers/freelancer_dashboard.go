package handlers

import (
	"errors"
	"math"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/apperrors"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/logger"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/models"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/services/review"
)

var activeStatuses = []models.OfferStatus{
	models.OfferStatusPending,
	models.OfferStatusAccepted,
	models.OfferStatusDelivered,
}

type FreelancerDashboardHandler struct {
	DB      *gorm.DB
	Reviews *review.Service
}

func NewFreelancerDashboardHandler(db *gorm.DB, reviews *review.Service) *FreelancerDashboardHandler {
	return &FreelancerDashboardHandler{DB: db, Reviews: reviews}
}

func (h *FreelancerDashboardHandler) Routes(r fiber.Router, authMiddleware ...fiber.Handler) {
	g := r.Group("/freelancer", authMiddleware...)
	g.Get("/dashboard/stats", h.GetDashboardStats)
	g.Get("/orders", h.GetOrders)
	g.Get("/earnings", h.GetEarnings)
}

func (h *FreelancerDashboardHandler) freelancerID(c *fiber.Ctx) (uuid.UUID, error) {
	actor, err := getAuth(c)
	if err != nil {
		return uuid.Nil, err
	}

	var f models.Freelancer
	err = h.DB.WithContext(c.UserContext()).Select("id").First(&f, "user_id = ?", actor.UserID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return uuid.Nil, apperrors.NotFound("Freelancer profile not found")
	}
	return f.ID, err
}

// GetDashboardStats returns summary counters for the dashboard.
func (h *FreelancerDashboardHandler) GetDashboardStats(c *fiber.Ctx) error {
	fid, err := h.freelancerID(c)
	if err != nil {
		return apperrors.Respond(c, err)
	}
	gdb := h.DB.WithContext(c.UserContext())

	var activeOrders, completedOrders, gigs int64
	if err := gdb.Model(&models.Offer{}).
		Where("freelancer_id = ? AND status IN ?", fid, activeStatuses).
		Count(&activeOrders).Error; err != nil {
		return apperrors.Respond(c, err)
	}
	if err := gdb.Model(&models.Offer{}).
		Where("freelancer_id = ? AND status = ?", fid, models.OfferStatusCompleted).
		Count(&completedOrders).Error; err != nil {
		return apperrors.Respond(c, err)
	}
	if err := gdb.Model(&models.Gig{}).Where("freelancer_id = ?", fid).Count(&gigs).Error; err != nil {
		return apperrors.Respond(c, err)
	}

	avg, reviews, err := h.Reviews.AverageRating(c.UserContext(), fid)
	if err != nil {
		return apperrors.Respond(c, err)
	}

	logger.Debug("dashboard stats", "freelancer_id", fid, "active", activeOrders, "completed", completedOrders)

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"active_orders":    activeOrders,
			"completed_orders": completedOrders,
			"gigs":             gigs,
			"average_rating":   math.Round(avg*100) / 100,
			"reviews":          reviews,
		},
	})
}

// GetOrders pages through offers this freelancer sent, optionally filtered
// by ?status=.
func (h *FreelancerDashboardHandler) GetOrders(c *fiber.Ctx) error {
	fid, err := h.freelancerID(c)
	if err != nil {
		return apperrors.Respond(c, err)
	}

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	status := models.OfferStatus(c.Query("status"))
	if status != "" && !status.Valid() {
		return apperrors.Respond(c, apperrors.BadRequest("Unknown offer status"))
	}
	scope := func() *gorm.DB {
		q := h.DB.WithContext(c.UserContext()).Model(&models.Offer{}).Where("freelancer_id = ?", fid)
		if status != "" {
			q = q.Where("status = ?", status)
		}
		return q
	}

	var total int64
	if err := scope().Count(&total).Error; err != nil {
		return apperrors.Respond(c, err)
	}

	var offers []models.Offer
	if err := scope().Preload("User").Preload("Gig").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&offers).Error; err != nil {
		return apperrors.Respond(c, err)
	}

	data := make([]fiber.Map, 0, len(offers))
	for _, o := range offers {
		client := fiber.Map{}
		if o.User != nil {
			client = fiber.Map{"username": o.User.Username, "name": o.User.Name, "image": o.User.Image}
		}
		gigTitle := ""
		if o.Gig != nil {
			gigTitle = o.Gig.Title
		}

		data = append(data, fiber.Map{
			"id":          o.ID,
			"gig_id":      o.GigID,
			"gig_title":   gigTitle,
			"price":       o.Price,
			"status":      o.Status,
			"is_accepted": o.IsAccepted,
			"created_at":  o.CreatedAt,
			"client":      client,
			"allowedNext": o.Status.AllowedNext(),
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    data,
		"meta": fiber.Map{
			"page":        page,
			"limit":       limit,
			"total_items": total,
			"total_pages": int(math.Ceil(float64(total) / float64(limit))),
		},
	})
}

// GetEarnings sums the prices of completed offers.
func (h *FreelancerDashboardHandler) GetEarnings(c *fiber.Ctx) error {
	fid, err := h.freelancerID(c)
	if err != nil {
		return apperrors.Respond(c, err)
	}
	gdb := h.DB.WithContext(c.UserContext())

	var total int64
	if err := gdb.Model(&models.Offer{}).
		Where("freelancer_id = ? AND status = ?", fid, models.OfferStatusCompleted).
		Select("COALESCE(SUM(price), 0)").
		Scan(&total).Error; err != nil {
		return apperrors.Respond(c, err)
	}

	history := []models.Offer{}
	if err := gdb.Preload("Gig").
		Where("freelancer_id = ? AND status = ?", fid, models.OfferStatusCompleted).
		Order("updated_at DESC").
		Limit(50).
		Find(&history).Error; err != nil {
		return apperrors.Respond(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"total_earnings": total,
			"history":        history,
		},
	})
}
