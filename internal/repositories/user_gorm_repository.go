package repositories

import (
	"context"
	"errors"
	"fmt"

	"flipsip/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create creates a new user in the database.
func (r *GORMUserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByEmail retrieves a user by their email from the database.
func (r *GORMUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.first(r.db.WithContext(ctx), email)
}

// GetByEmailWithOrders retrieves a user and their orders, newest first.
func (r *GORMUserRepository) GetByEmailWithOrders(ctx context.Context, email string) (*models.User, error) {
	tx := r.db.WithContext(ctx).Preload("Orders", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at DESC")
	})
	return r.first(tx, email)
}

// UpdatePhone overwrites the stored phone of the user with the given email.
func (r *GORMUserRepository) UpdatePhone(ctx context.Context, email, phone string) (*models.User, error) {
	user, err := r.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Model(user).Update("phone", phone).Error; err != nil {
		return nil, fmt.Errorf("failed to update phone for %s: %w", email, err)
	}
	user.Phone = &phone
	return user, nil
}

func (r *GORMUserRepository) first(tx *gorm.DB, email string) (*models.User, error) {
	var user models.User
	if err := tx.First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user with email %s: %w", email, ErrUserNotFound)
		}
		return nil, fmt.Errorf("failed to get user by email %s: %w", email, err)
	}
	return &user, nil
}
