package handlers

import (
	"errors"
	"log"

	"flipsip/internal/middleware"
	"flipsip/internal/models"
	"flipsip/internal/services"

	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for the caller's orders.
type OrderHandler struct {
	service *services.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service: service,
	}
}

// RegisterRoutes registers the order routes.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/order", h.HandleListOrders)
	router.Post("/order", h.HandleCreateOrder)
}

// HandleListOrders returns the caller's orders, newest first. Every response,
// including failures, carries an orders array.
func (h *OrderHandler) HandleListOrders(c *fiber.Ctx) error {
	orders, err := h.service.ListOrders(c.UserContext(), middleware.PrincipalFrom(c))
	switch {
	case err == nil:
		return c.JSON(fiber.Map{"orders": orders})
	case errors.Is(err, services.ErrNoSession):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"orders": []models.Order{}})
	case errors.Is(err, services.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"orders": []models.Order{}})
	default:
		log.Printf("Order fetch error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"orders": []models.Order{}})
	}
}

// HandleCreateOrder validates and stores a new order for the caller.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	principal := middleware.PrincipalFrom(c)
	if !principal.Authenticated() {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Not authenticated",
		})
	}

	var fields models.OrderFields
	if err := c.BodyParser(&fields); err != nil {
		log.Printf("Error parsing order request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	order, err := h.service.CreateOrder(c.UserContext(), principal, fields)
	if err != nil {
		return orderError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"order": order})
}

func orderError(c *fiber.Ctx, err error) error {
	var verr *services.ValidationError
	switch {
	case errors.Is(err, services.ErrNoSession):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not authenticated"})
	case errors.Is(err, services.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	case errors.As(err, &verr):
		message := "Invalid order fields."
		if errors.Is(err, services.ErrMissingFields) {
			message = "Missing required fields."
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  message,
			"fields": verr.Fields(),
		})
	default:
		log.Printf("Order creation error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
}
