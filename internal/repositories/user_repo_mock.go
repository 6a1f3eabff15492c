package repositories

import (
	"context"
	"fmt"
	"sync"
	"time"

	"flipsip/internal/models"

	"github.com/google/uuid"
)

// MockUserRepository is an in-memory implementation of UserRepository. It
// reads orders from an OrderRepository so GetByEmailWithOrders behaves like
// the GORM preload.
type MockUserRepository struct {
	users  map[string]models.User // keyed by email
	orders OrderRepository
	mu     sync.RWMutex
}

// NewMockUserRepository creates a new instance of MockUserRepository. orders
// may be nil.
func NewMockUserRepository(orders OrderRepository) *MockUserRepository {
	return &MockUserRepository{
		users:  make(map[string]models.User),
		orders: orders,
	}
}

// Create adds a new user. Emails are unique.
func (r *MockUserRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[user.Email]; exists {
		return fmt.Errorf("failed to create user: email %s already exists", user.Email)
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.users[user.Email] = *user
	return nil
}

// GetByEmail returns a user by email.
func (r *MockUserRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[email]
	if !ok {
		return nil, fmt.Errorf("user with email %s: %w", email, ErrUserNotFound)
	}
	return &user, nil
}

// GetByEmailWithOrders returns a user by email together with their orders.
func (r *MockUserRepository) GetByEmailWithOrders(ctx context.Context, email string) (*models.User, error) {
	user, err := r.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if r.orders != nil {
		orders, err := r.orders.ListByUser(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		user.Orders = orders
	}
	return user, nil
}

// UpdatePhone overwrites the stored phone of a user.
func (r *MockUserRepository) UpdatePhone(_ context.Context, email, phone string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[email]
	if !ok {
		return nil, fmt.Errorf("user with email %s: %w", email, ErrUserNotFound)
	}
	user.Phone = &phone
	user.UpdatedAt = time.Now()
	r.users[email] = user
	return &user, nil
}
