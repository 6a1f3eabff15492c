package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"flipsip/internal/models"
	"flipsip/internal/repositories"
)

// UserService resolves sessions to users and maintains user contact data.
type UserService struct {
	repo repositories.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(repo repositories.UserRepository) *UserService {
	return &UserService{
		repo: repo,
	}
}

// Resolve returns the user behind principal. It returns ErrNoSession for an
// unauthenticated principal and ErrUserNotFound when no user has its email.
func (s *UserService) Resolve(ctx context.Context, principal models.Principal) (*models.User, error) {
	if !principal.Authenticated() {
		return nil, ErrNoSession
	}
	return s.repo.GetByEmail(ctx, principal.Email)
}

// CurrentUser returns the caller together with their orders, or nil when
// there is no session or no matching user.
func (s *UserService) CurrentUser(ctx context.Context, principal models.Principal) (*models.User, error) {
	if !principal.Authenticated() {
		return nil, nil
	}
	user, err := s.repo.GetByEmailWithOrders(ctx, principal.Email)
	if errors.Is(err, ErrUserNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// UpdatePhone overwrites the phone stored for email. Repeating the call with
// the same phone leaves the user unchanged.
func (s *UserService) UpdatePhone(ctx context.Context, email, phone string) (*models.User, error) {
	if email == "" || phone == "" {
		return nil, ErrPhoneUpdateInvalid
	}

	user, err := s.repo.UpdatePhone(ctx, email, phone)
	if err != nil {
		return nil, fmt.Errorf("failed to update phone: %w", err)
	}
	log.Printf("Updated phone for user %s", user.ID)
	return user, nil
}
