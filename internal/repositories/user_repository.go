package repositories

import (
	"context"

	"flipsip/internal/models"
)

// UserRepository defines the interface for user data access. Users are keyed
// by email.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// GetByEmailWithOrders also loads the user's orders, newest first.
	GetByEmailWithOrders(ctx context.Context, email string) (*models.User, error)
	UpdatePhone(ctx context.Context, email, phone string) (*models.User, error)
}
