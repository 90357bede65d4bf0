package enrollmentController

import (
	"fmt"
	"strings"

	"sportify/middleware"
	"sportify/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ListEnrollments returns the classes the caller paid for, newest first.
func ListEnrollments(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		email := strings.TrimSpace(c.Query("email"))
		if email == "" {
			return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrolled classes.", []models.Enrollment{})
		}
		if !strings.EqualFold(email, middleware.CallerEmail(c)) {
			return middleware.ErrorResponse(c, fiber.StatusForbidden, "forbidden access")
		}

		var enrollments []models.Enrollment
		if err := db.WithContext(c.UserContext()).
			Where("email = ?", middleware.CallerEmail(c)).
			Order("date DESC, id DESC").
			Find(&enrollments).Error; err != nil {
			return fmt.Errorf("list enrollments: %w", err)
		}
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrolled classes.", enrollments)
	}
}
