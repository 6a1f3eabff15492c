package handlers

import (
	"errors"
	"log"

	"flipsip/internal/middleware"
	"flipsip/internal/services"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles HTTP requests about the signed-in user.
type UserHandler struct {
	service *services.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service *services.UserService) *UserHandler {
	return &UserHandler{
		service: service,
	}
}

// RegisterRoutes registers the user routes.
func (h *UserHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/user", h.HandleCurrentUser)
	router.Post("/update-user-phone", h.HandleUpdatePhone)
	router.Get("/update-user-phone", methodNotAllowed)
}

// HandleCurrentUser returns the caller with their orders. It never fails:
// without a session, or on lookup errors, user is null.
func (h *UserHandler) HandleCurrentUser(c *fiber.Ctx) error {
	user, err := h.service.CurrentUser(c.UserContext(), middleware.PrincipalFrom(c))
	if err != nil {
		log.Printf("Error fetching current user: %v", err)
		return c.JSON(fiber.Map{"user": nil})
	}
	if user == nil {
		return c.JSON(fiber.Map{"user": nil})
	}
	return c.JSON(fiber.Map{"user": user})
}

// UpdatePhoneRequest is the body of an update-user-phone request.
type UpdatePhoneRequest struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// HandleUpdatePhone overwrites the phone of the user named in the body.
func (h *UserHandler) HandleUpdatePhone(c *fiber.Ctx) error {
	var req UpdatePhoneRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing update phone request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	user, err := h.service.UpdatePhone(c.UserContext(), req.Email, req.Phone)
	switch {
	case err == nil:
		return c.JSON(fiber.Map{"success": true, "user": user})
	case errors.Is(err, services.ErrPhoneUpdateInvalid):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Email and phone are required."})
	case errors.Is(err, services.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	default:
		log.Printf("Error updating phone: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not update phone."})
	}
}

func methodNotAllowed(c *fiber.Ctx) error {
	return c.Status(fiber.StatusMethodNotAllowed).JSON(fiber.Map{"error": "Method not allowed"})
}
