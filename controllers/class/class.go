package classController

import (
	"errors"
	"fmt"

	"sportify/middleware"
	"sportify/models"
	classValidator "sportify/validators/class"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const popularLimit = 6

func ListClasses(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var classes []models.Class
		if err := db.WithContext(c.UserContext()).Order("id").Find(&classes).Error; err != nil {
			return fmt.Errorf("list classes: %w", err)
		}
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Class List.", classes)
	}
}

func ApprovedClasses(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var classes []models.Class
		if err := db.WithContext(c.UserContext()).
			Where("status = ?", models.ClassStatusApproved).
			Order("id").
			Find(&classes).Error; err != nil {
			return fmt.Errorf("list approved classes: %w", err)
		}
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Approved classes.", classes)
	}
}

// PopularClasses returns the approved classes with the most enrollments.
func PopularClasses(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var classes []models.Class
		if err := db.WithContext(c.UserContext()).
			Where("status = ?", models.ClassStatusApproved).
			Order("enroll_count DESC, id").
			Limit(popularLimit).
			Find(&classes).Error; err != nil {
			return fmt.Errorf("list popular classes: %w", err)
		}
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Popular classes.", classes)
	}
}

// MyClasses lists the classes taught by the calling instructor.
func MyClasses(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var classes []models.Class
		if err := db.WithContext(c.UserContext()).
			Where("instructor_email = ?", middleware.CallerEmail(c)).
			Order("id").
			Find(&classes).Error; err != nil {
			return fmt.Errorf("list instructor classes: %w", err)
		}
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Your classes.", classes)
	}
}

// CreateClass stores a new class for the calling instructor. It starts pending
// with no enrollments whatever the body says.
func CreateClass(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData, ok := c.Locals("validatedClass").(*classValidator.CreateClassRequest)
		if !ok {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request data!")
		}

		tx := db.WithContext(c.UserContext())

		var instructor models.User
		if err := tx.Where("email = ?", middleware.CallerEmail(c)).First(&instructor).Error; err != nil {
			return fmt.Errorf("load instructor: %w", err)
		}

		class := models.Class{
			Name:            reqData.Name,
			Image:           reqData.Image,
			Price:           reqData.Price,
			InstructorID:    instructor.ID,
			InstructorName:  instructor.Name,
			InstructorEmail: instructor.Email,
			AvailableSeats:  reqData.AvailableSeats,
			Status:          models.ClassStatusPending,
		}
		if err := tx.Create(&class).Error; err != nil {
			return fmt.Errorf("create class: %w", err)
		}

		return middleware.JsonResponse(c, fiber.StatusCreated, true, "Class submitted for review.", class)
	}
}

// UpdateStatus approves or denies a class.
func UpdateStatus(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData, ok := c.Locals("validatedStatus").(*classValidator.UpdateStatusRequest)
		if !ok {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request data!")
		}
		return updateColumn(c, db, "status", reqData.Status)
	}
}

// SendFeedback attaches admin feedback to a class.
func SendFeedback(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData, ok := c.Locals("validatedFeedback").(*classValidator.FeedbackRequest)
		if !ok {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request data!")
		}
		return updateColumn(c, db, "feedback", reqData.Feedback)
	}
}

func updateColumn(c *fiber.Ctx, db *gorm.DB, column string, value any) error {
	id := c.Locals("id").(uint)
	tx := db.WithContext(c.UserContext())

	var class models.Class
	if err := tx.First(&class, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.ErrorResponse(c, fiber.StatusNotFound, "Class not found!")
		}
		return fmt.Errorf("load class %d: %w", id, err)
	}

	if err := tx.Model(&class).Update(column, value).Error; err != nil {
		return fmt.Errorf("update class %d %s: %w", id, column, err)
	}
	if err := tx.First(&class, id).Error; err != nil {
		return fmt.Errorf("reload class %d: %w", id, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Class updated.", class)
}
