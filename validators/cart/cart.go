package cartValidator

import (
	"sportify/middleware"
	"sportify/validators"

	"github.com/gofiber/fiber/v2"
)

type AddToCartRequest struct {
	ClassID uint `json:"classId" validate:"gt=0"`
}

func AddToCart() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(AddToCartRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body!")
		}
		if errors := validators.Struct(reqData); errors != nil {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCartItem", reqData)
		return c.Next()
	}
}
