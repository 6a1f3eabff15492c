// Package app wires repositories, services and handlers into a Fiber app.
package app

import (
	"errors"
	"log"
	"time"

	"flipsip/internal/config"
	"flipsip/internal/handlers"
	"flipsip/internal/middleware"
	"flipsip/internal/repositories"
	"flipsip/internal/services"
	"flipsip/internal/whatsapp"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"
)

const (
	AdminSecretHeader        = "X-Admin-Secret"
	AuthCallbackSecretHeader = "X-Auth-Callback-Secret"
)

// New builds the HTTP application. events may be nil to disable order
// events. The returned AuthService is the one validating session tokens.
func New(cfg *config.Config, db *gorm.DB, events services.EventPublisher) (*fiber.App, *services.AuthService) {
	// --- Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)

	// --- Services ---
	authService := services.NewAuthService(userRepo, cfg.Auth.JWTSecret, cfg.Auth.TokenDuration)
	userService := services.NewUserService(userRepo)
	orderService := services.NewOrderService(orderRepo, userService, events, cfg.DefaultCountry)
	notificationService := services.NewNotificationService(whatsapp.NewLinkBuilder(&cfg.WhatsApp), cfg.DefaultCountry)

	// --- Handlers ---
	orderHandler := handlers.NewOrderHandler(orderService)
	userHandler := handlers.NewUserHandler(userService)
	whatsAppHandler := handlers.NewWhatsAppHandler(notificationService)
	authHandler := handlers.NewAuthHandler(authService)
	adminHandler := handlers.NewAdminHandler(orderService)

	app := fiber.New(fiber.Config{
		AppName:      "flipsip",
		ErrorHandler: errorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		status := fiber.Map{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"events":   events != nil,
			"whatsapp": len(cfg.WhatsApp.AdminNumbers) > 0,
		}
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(c.UserContext()) != nil {
			status["status"] = "degraded"
			return c.Status(fiber.StatusServiceUnavailable).JSON(status)
		}
		return c.JSON(status)
	})

	api := app.Group("/api", middleware.Timeout(cfg.RequestTimeout), middleware.Session(authService))
	orderHandler.RegisterRoutes(api)
	userHandler.RegisterRoutes(api)
	whatsAppHandler.RegisterRoutes(api)
	authHandler.RegisterRoutes(api, middleware.SharedSecret(cfg.Auth.AuthCallbackSecretHash, AuthCallbackSecretHeader))
	adminHandler.RegisterRoutes(api, middleware.SharedSecret(cfg.Auth.AdminSecretHash, AdminSecretHeader))

	return app, authService
}

// errorHandler answers every unhandled error with a JSON envelope. Details of
// non-Fiber errors are logged, never returned.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
		message = fiberErr.Message
	} else {
		log.Printf("Unhandled error on %s %s: %v", c.Method(), c.Path(), err)
	}
	return c.Status(code).JSON(fiber.Map{"error": message})
}
