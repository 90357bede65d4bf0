package userController

import (
	"fmt"

	"sportify/middleware"
	"sportify/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const popularLimit = 6

func ListInstructors(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var instructors []models.User
		if err := db.WithContext(c.UserContext()).
			Where("role = ?", models.RoleInstructor).
			Order("id").
			Find(&instructors).Error; err != nil {
			return fmt.Errorf("list instructors: %w", err)
		}
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Instructor List.", instructors)
	}
}

// PopularInstructors returns the instructors with the most enrollments.
func PopularInstructors(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var instructors []models.User
		if err := db.WithContext(c.UserContext()).
			Where("role = ?", models.RoleInstructor).
			Order("COALESCE(enroll_count, 0) DESC, id").
			Limit(popularLimit).
			Find(&instructors).Error; err != nil {
			return fmt.Errorf("list popular instructors: %w", err)
		}
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Popular instructors.", instructors)
	}
}

// InstructorStat groups an instructor's approved classes.
type InstructorStat struct {
	ID      string   `json:"_id"`
	Classes []string `json:"classes"`
	Count   int64    `json:"count"`
}

// InstructorStats groups the approved classes of the instructor named in :name.
// An instructor without approved classes yields an empty list.
func InstructorStats(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		name := c.Params("name")
		tx := db.WithContext(c.UserContext())

		approved := func() *gorm.DB {
			return tx.Model(&models.Class{}).
				Where("instructor_name = ? AND status = ?", name, models.ClassStatusApproved)
		}

		var groups []struct {
			InstructorName string
			Count          int64
		}
		if err := approved().
			Select("instructor_name, COUNT(*) AS count").
			Group("instructor_name").
			Scan(&groups).Error; err != nil {
			return fmt.Errorf("group instructor classes: %w", err)
		}

		stats := make([]InstructorStat, 0, len(groups))
		for _, g := range groups {
			var classes []string
			if err := approved().Distinct().Order("name").Pluck("name", &classes).Error; err != nil {
				return fmt.Errorf("list instructor classes: %w", err)
			}
			stats = append(stats, InstructorStat{ID: g.InstructorName, Classes: classes, Count: g.Count})
		}

		return middleware.JsonResponse(c, fiber.StatusOK, true, "Instructor stats.", stats)
	}
}
