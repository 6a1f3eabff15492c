package middleware

import (
	"log"
	"strings"

	"flipsip/internal/models"
	"flipsip/internal/services"

	"github.com/gofiber/fiber/v2"
)

const principalKey = "principal"

// Session resolves an optional "Authorization: Bearer <token>" header into a
// models.Principal stored on the request. A missing or invalid token leaves
// the request unauthenticated; handlers decide what that means.
func Session(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Next()
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			log.Printf("Ignoring malformed Authorization header on %s", c.Path())
			return c.Next()
		}

		principal, err := authService.Principal(parts[1])
		if err != nil {
			log.Printf("Session token rejected: %v", err)
			return c.Next()
		}

		c.Locals(principalKey, principal)
		return c.Next()
	}
}

// PrincipalFrom returns the principal resolved by Session, or the zero
// principal when the request is unauthenticated.
func PrincipalFrom(c *fiber.Ctx) models.Principal {
	principal, _ := c.Locals(principalKey).(models.Principal)
	return principal
}
