package handlers

import (
	"fmt"
	"log"

	"flipsip/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles the sign-in callback of the external auth provider.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the authentication routes behind guard.
func (h *AuthHandler) RegisterRoutes(router fiber.Router, guard fiber.Handler) {
	authRoutes := router.Group("/auth", guard)
	authRoutes.Post("/session", h.HandleSignIn)
}

// HandleSignIn exchanges a verified provider profile for a session token,
// creating the user on first sign-in.
func (h *AuthHandler) HandleSignIn(c *fiber.Ctx) error {
	var profile services.Profile
	if err := c.BodyParser(&profile); err != nil {
		log.Printf("Error parsing sign-in request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := h.validate.Struct(profile); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "Validation failed",
			"errors": errorMessages,
		})
	}

	token, user, err := h.authService.SignIn(c.UserContext(), profile)
	if err != nil {
		log.Printf("Error signing in %s: %v", profile.Email, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not sign in",
		})
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}
