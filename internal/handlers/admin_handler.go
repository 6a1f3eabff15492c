package handlers

import (
	"errors"
	"log"

	"flipsip/internal/models"
	"flipsip/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler exposes order status changes to store administrators.
type AdminHandler struct {
	service *services.OrderService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(service *services.OrderService) *AdminHandler {
	return &AdminHandler{
		service: service,
	}
}

// RegisterRoutes registers the admin routes behind guard.
func (h *AdminHandler) RegisterRoutes(router fiber.Router, guard fiber.Handler) {
	adminRoutes := router.Group("/admin", guard)
	adminRoutes.Patch("/orders/:id/status", h.HandleUpdateOrderStatus)
}

// UpdateStatusRequest is the body of a status change.
type UpdateStatusRequest struct {
	Status        models.OrderStatus `json:"status"`
	FailureReason string             `json:"failureReason"`
}

// HandleUpdateOrderStatus sets the status of an order.
func (h *AdminHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	orderID := c.Params("id")

	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing request body for status update: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	order, err := h.service.UpdateStatus(c.UserContext(), orderID, req.Status, req.FailureReason)
	switch {
	case err == nil:
		log.Printf("Order %s status set to %s", orderID, order.Status)
		return c.JSON(fiber.Map{"order": order})
	case errors.Is(err, services.ErrInvalidStatus):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrOrderNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Order not found"})
	default:
		log.Printf("Error updating order status for order %s: %v", orderID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not update order status"})
	}
}
