package handlers

import (
	"errors"
	"log"

	"flipsip/internal/models"
	"flipsip/internal/services"
	"flipsip/internal/whatsapp"

	"github.com/gofiber/fiber/v2"
)

// WhatsAppHandler generates the administrator deep links for an order.
type WhatsAppHandler struct {
	service *services.NotificationService
}

// NewWhatsAppHandler creates a new WhatsAppHandler.
func NewWhatsAppHandler(service *services.NotificationService) *WhatsAppHandler {
	return &WhatsAppHandler{
		service: service,
	}
}

// RegisterRoutes registers the WhatsApp routes.
func (h *WhatsAppHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/send-whatsapp-order", h.HandleGenerateLinks)
}

// HandleGenerateLinks formats the submitted order and returns one wa.me link
// per administrator. Configuration problems are logged, not returned.
func (h *WhatsAppHandler) HandleGenerateLinks(c *fiber.Ctx) error {
	var fields models.OrderFields
	if err := c.BodyParser(&fields); err != nil {
		log.Printf("Error parsing WhatsApp order body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	links, err := h.service.GenerateLinks(fields)
	if err != nil {
		if errors.Is(err, whatsapp.ErrNoAdminNumbers) {
			log.Printf("No admin numbers set!")
		} else {
			log.Printf("Error generating WhatsApp links: %v", err)
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not generate WhatsApp links",
		})
	}
	return c.JSON(fiber.Map{"links": links})
}
