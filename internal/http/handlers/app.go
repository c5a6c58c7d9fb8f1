package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jmoiron/sqlx"

	"counterpos/internal/config"
	applog "counterpos/internal/log"
	"counterpos/internal/repos"
	"counterpos/internal/services"
)

const maxBodyBytes = 1 << 20 // 1 MiB

// NewApp builds the fiber app with every middleware and route mounted.
func NewApp(db *sqlx.DB, cfg config.Config) *fiber.App {
	authSvc := &services.AuthService{Users: repos.NewUserRepo(db)}
	deps := NewDeps(db, cfg, authSvc)

	app := fiber.New(fiber.Config{
		BodyLimit:    maxBodyBytes,
		ErrorHandler: ErrorHandler,
	})

	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(recover.New())
	app.Use(AttachUser(authSvc))

	limit := cfg.RateLimitMax
	if limit <= 0 {
		limit = 60
	}
	app.Use(limiter.New(limiter.Config{
		Max:        limit,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/healthz"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.global.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		},
	}))

	loginLimiter := limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|login"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "Too many attempts. Please try again later."})
		},
	})

	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	deps.Mount(app, loginLimiter)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found"})
	})
	return app
}

// ErrorHandler catches anything a handler returned instead of responding
// itself (fiber errors, panics turned into errors by recover).
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
		if fe.Code == fiber.StatusRequestEntityTooLarge {
			applog.Security(c, "request.too_large", nil)
		}
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	}
	applog.Error(c, "server.error", err, nil)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":   "internal_error",
		"message": "Something went wrong. Please try again.",
	})
}
