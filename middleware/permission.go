package middleware

import (
	"context"
	"errors"
	"log"

	"sportify/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// HasRole reports whether the user with the given email holds role.
// An unknown email has no role.
func HasRole(ctx context.Context, db *gorm.DB, email, role string) (bool, error) {
	var user models.User
	err := db.WithContext(ctx).Select("role").Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return user.Role == role, nil
}

// RequireRole must run after JWTMiddleware.
func RequireRole(db *gorm.DB, role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		email := CallerEmail(c)
		if email == "" {
			return ErrorResponse(c, fiber.StatusUnauthorized, "unauthorized access")
		}

		ok, err := HasRole(c.UserContext(), db, email, role)
		if err != nil {
			log.Printf("[ACCESS] role lookup for %s failed: %v", email, err)
			return ErrorResponse(c, fiber.StatusInternalServerError, "Server error while checking permissions!")
		}
		if !ok {
			return ErrorResponse(c, fiber.StatusForbidden, "forbidden access")
		}

		return c.Next()
	}
}
