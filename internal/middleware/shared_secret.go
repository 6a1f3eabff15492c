package middleware

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

// SharedSecret guards a route group with a secret sent in header and checked
// against a bcrypt hash. With an empty hash the routes answer 404.
func SharedSecret(hash, header string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if hash == "" {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Not found",
			})
		}

		secret := c.Get(header)
		if secret == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": header + " header is required",
			})
		}

		if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)); err != nil {
			log.Printf("Rejected %s on %s: %v", header, c.Path(), err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid credentials",
			})
		}
		return c.Next()
	}
}
