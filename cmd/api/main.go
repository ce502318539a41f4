package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/apperrors"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/config"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/db"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/handlers"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/logger"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/realtime"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/services/editor"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/services/gig"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/services/moderation"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/services/offer"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/services/profile"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/services/review"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger.Init(cfg.AppEnv)
	dev := cfg.AppEnv == "development"

	gdb, err := db.Connect(cfg.DBDSN, dev)
	if err != nil {
		logger.Fatal("database connect failed", "error", err)
	}
	if err := db.Migrate(gdb); err != nil {
		logger.Fatal("database migrate failed", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		rdb    *redis.Client
		drafts editor.Store
	)
	rdb = realtime.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err := rdb.Ping(ctx).Err(); err != nil {
		if !dev {
			logger.Fatal("redis unavailable", "addr", cfg.RedisAddr, "error", err)
		}
		logger.Warn("redis unavailable, using in-memory drafts", "addr", cfg.RedisAddr, "error", err)
		_ = rdb.Close()
		rdb = nil
		drafts = editor.NewMemoryStore()
	} else {
		drafts = editor.NewRedisStore(rdb, time.Duration(cfg.DraftTTLMin)*time.Minute)
	}

	hub := realtime.NewHub()
	go hub.Run(ctx)
	notifier := realtime.NewNotifier(hub, rdb)

	profiles := profile.NewService(gdb, notifier)
	deps := handlers.Deps{
		DB:         gdb,
		Session:    handlers.Session{JWTSecret: cfg.JWTSecret, Expires: cfg.JWTExpiresMin, Secure: !dev},
		Uploads:    handlers.Uploads{Dir: cfg.UploadDir, PublicBaseURL: cfg.AppBaseURL},
		Hub:        hub,
		Profiles:   profiles,
		Editor:     editor.NewService(drafts, profiles),
		Gigs:       gig.NewService(gdb, notifier),
		Offers:     offer.NewService(gdb, notifier),
		Reviews:    review.NewService(gdb, notifier),
		Moderation: moderation.NewService(gdb, notifier),
	}
	if cfg.GoogleEnabled() {
		deps.Google = &handlers.GoogleOAuthHandler{
			DB:              gdb,
			Session:         deps.Session,
			GoogleClientID:  cfg.GoogleClientID,
			GoogleSecret:    cfg.GoogleSecret,
			GoogleRedirect:  cfg.GoogleRedirect,
			FrontendBaseURL: cfg.FrontendBaseURL,
		}
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: apperrors.FiberErrorHandler,
		BodyLimit:    8 * 1024 * 1024,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		ExposeHeaders:    "Content-Length",
		AllowCredentials: true,
	}))

	app.Options("/*", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	app.Static("/uploads", cfg.UploadDir)
	handlers.Register(app, deps)

	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logger.Error("shutdown failed", "error", err)
		}
	}()

	logger.Info("listening", "port", cfg.AppPort, "env", cfg.AppEnv)
	if err := app.Listen(":" + cfg.AppPort); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("server stopped", "error", err)
	}

	if rdb != nil {
		_ = rdb.Close()
	}
	if sqlDB, err := gdb.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
