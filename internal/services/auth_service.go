package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"flipsip/internal/models"
	"flipsip/internal/repositories"

	"github.com/dgrijalva/jwt-go"
)

// Profile is the identity an external auth provider reports after a
// successful sign-in.
type Profile struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

// AuthService issues and validates session tokens. Users are created the
// first time they sign in.
type AuthService struct {
	userRepo   repositories.UserRepository
	jwtSecret  []byte
	tokenDurat time.Duration // Duration for which JWT is valid
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string, tokenDuration time.Duration) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: tokenDuration,
	}
}

// SignIn finds or creates the user for profile and returns a signed session
// token for them.
func (s *AuthService) SignIn(ctx context.Context, profile Profile) (string, *models.User, error) {
	if profile.Email == "" {
		return "", nil, fmt.Errorf("profile email is required")
	}

	user, err := s.userRepo.GetByEmail(ctx, profile.Email)
	if errors.Is(err, repositories.ErrUserNotFound) {
		user = &models.User{Email: profile.Email, Name: profile.Name}
		if profile.Image != "" {
			user.Image = &profile.Image
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return "", nil, fmt.Errorf("failed to create user on first sign-in: %w", err)
		}
		log.Printf("Created user %s on first sign-in", user.ID)
	} else if err != nil {
		return "", nil, err
	}

	token, err := s.issueToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *AuthService) issueToken(user *models.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"exp":   now.Add(s.tokenDurat).Unix(),
		"iat":   now.Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates a JWT token, returning the claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token")
}

// Principal validates tokenString and returns the principal it names.
func (s *AuthService) Principal(tokenString string) (models.Principal, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return models.Principal{}, err
	}
	email, _ := claims["email"].(string)
	if email == "" {
		return models.Principal{}, fmt.Errorf("invalid token: missing email claim")
	}
	return models.Principal{Email: email}, nil
}
