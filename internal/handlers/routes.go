package handlers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/middleware"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/realtime"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/services/editor"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/services/gig"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/services/moderation"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/services/offer"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/services/profile"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/services/review"
)

// Deps is everything the HTTP layer needs. Google is optional; its routes
// are only mounted when it is set.
type Deps struct {
	DB         *gorm.DB
	Session    Session
	Uploads    Uploads
	Hub        *realtime.Hub
	Profiles   *profile.Service
	Editor     *editor.Service
	Gigs       *gig.Service
	Offers     *offer.Service
	Reviews    *review.Service
	Moderation *moderation.Service
	Google     *GoogleOAuthHandler
}

// Register mounts every route on app.
func Register(app *fiber.App, d Deps) {
	authH := &AuthHandler{DB: d.DB, Session: d.Session}
	profileH := NewProfileHandler(d.Profiles, d.Session)
	editorH := NewFreelancerEditorHandler(d.Editor, d.Profiles, d.Uploads, d.Session)
	dashboardH := NewFreelancerDashboardHandler(d.DB, d.Reviews)
	gigH := NewGigHandler(d.Gigs, d.Uploads)
	categoryH := NewCategoryHandler(d.Gigs)
	offerH := NewOfferHandler(d.Offers)
	reviewH := NewReviewHandler(d.Reviews)
	reportH := NewReportHandler(d.Moderation)

	jwtMW := []fiber.Handler{
		middleware.JWTFromCookie(d.Session.JWTSecret),
		middleware.AttachJWTLocals(),
	}

	api := app.Group("/api")

	// public
	api.Post("/auth/register", authH.Register)
	api.Post("/auth/login", authH.Login)
	api.Post("/auth/logout", authH.Logout)
	if d.Google != nil {
		api.Get("/auth/google/start", d.Google.GoogleStart)
		api.Get("/auth/google/callback", d.Google.GoogleCallback)
	}
	api.Get("/users/:username/profile", middleware.OptionalJWT(d.Session.JWTSecret), profileH.GetProfile)
	api.Get("/categories", categoryH.GetCategories)
	api.Get("/data/technologies", categoryH.GetTechnologies)
	api.Get("/gigs/:id", gigH.Get)
	api.Get("/freelancers/:freelancerId/gigs", gigH.ListByFreelancer)

	// protected (JWT)
	editorH.Routes(api, jwtMW...)
	dashboardH.Routes(api, jwtMW...)

	protected := api.Group("/", jwtMW...)

	protected.Get("/me", profileH.Me)
	protected.Put("/data/users/:userId/freelancers/update", profileH.UpdateFreelancer)
	protected.Put("/user/edit-username", profileH.EditUsername)

	protected.Post("/gigs", gigH.Create)
	protected.Put("/gigs/:id/edit", gigH.Edit)
	protected.Delete("/gigs/:id/delete", gigH.Delete)
	protected.Post("/gigs/:id/thumbnails", gigH.UploadThumbnail)
	protected.Post("/gigs/:id/create-review", reviewH.CreateReview)

	protected.Post("/offer", offerH.CreateOffer)
	protected.Get("/offers", offerH.GetOffers)
	protected.Get("/offer/:id", offerH.GetOffer)
	protected.Put("/offer/update-status", offerH.UpdateStatus)

	protected.Put("/report", reportH.Report)

	// admin only
	protected.Get("/admin/users/:id/reports", middleware.RequireRoles("admin"), reportH.ListReports)

	if d.Hub != nil {
		notifyH := NewNotificationHandler(d.Hub)
		ws := append([]fiber.Handler{notifyH.RequireUpgrade}, jwtMW...)
		app.Get("/ws/notifications", append(ws, notifyH.Stream())...)
	}
}
