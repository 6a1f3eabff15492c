package services

import (
	"flipsip/internal/models"
	"flipsip/internal/whatsapp"
)

// NotificationService turns an order field bag into WhatsApp deep links for
// the store administrators.
type NotificationService struct {
	links          *whatsapp.LinkBuilder
	defaultCountry string
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(links *whatsapp.LinkBuilder, defaultCountry string) *NotificationService {
	return &NotificationService{
		links:          links,
		defaultCountry: defaultCountry,
	}
}

// GenerateLinks formats the order message and returns one link per
// administrator. It fails with whatsapp.ErrNoAdminNumbers when none are
// configured.
func (s *NotificationService) GenerateLinks(fields models.OrderFields) ([]string, error) {
	if fields.Country == "" {
		fields.Country = s.defaultCountry
	}
	return s.links.Build(whatsapp.FormatOrderMessage(fields))
}
