package classValidator

import (
	"strings"

	"sportify/middleware"
	"sportify/models"
	"sportify/validators"

	"github.com/gofiber/fiber/v2"
)

type CreateClassRequest struct {
	Name           string  `json:"className" validate:"required"`
	Image          string  `json:"image" validate:"required,url"`
	Price          float64 `json:"price" validate:"gte=0"`
	AvailableSeats int     `json:"availableSeats" validate:"gte=0"`
}

func CreateClass() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateClassRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body!")
		}
		reqData.Name = strings.TrimSpace(reqData.Name)

		if errors := validators.Struct(reqData); errors != nil {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedClass", reqData)
		return c.Next()
	}
}

type UpdateStatusRequest struct {
	Status models.ClassStatus `json:"status" validate:"required,oneof=pending approved denied"`
}

func UpdateStatus() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateStatusRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body!")
		}
		if errors := validators.Struct(reqData); errors != nil {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedStatus", reqData)
		return c.Next()
	}
}

type FeedbackRequest struct {
	Feedback string `json:"feedback" validate:"required"`
}

func Feedback() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(FeedbackRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body!")
		}
		if errors := validators.Struct(reqData); errors != nil {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedFeedback", reqData)
		return c.Next()
	}
}
