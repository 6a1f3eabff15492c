package repositories

import (
	"context"

	"flipsip/internal/models"
)

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	// ListByUser returns the user's orders ordered by creation time, newest
	// first. It never returns a nil slice on success.
	ListByUser(ctx context.Context, userID string) ([]models.Order, error)
	GetByID(ctx context.Context, id string) (*models.Order, error)
	Create(ctx context.Context, order *models.Order) error
	UpdateStatus(ctx context.Context, id string, status models.OrderStatus, reason *string) (*models.Order, error)
}
