package paymentValidator

import (
	"time"

	"sportify/middleware"
	"sportify/validators"

	"github.com/gofiber/fiber/v2"
)

// SettleRequest is the body of POST /payments.
type SettleRequest struct {
	Email         string    `json:"email" validate:"required,email"`
	ClassIDs      []uint    `json:"classIds" validate:"required,min=1,unique,dive,gt=0"`
	InstructorIDs []uint    `json:"instructorIds" validate:"required,min=1,dive,gt=0"`
	CartIDs       []uint    `json:"cartIds" validate:"omitempty,dive,gt=0"`
	TransactionID string    `json:"transactionId" validate:"required"`
	Price         float64   `json:"price" validate:"gte=0"`
	Date          time.Time `json:"date" validate:"required"`
}

// Settle validates a settlement submission. Class ids must be unique and
// there must be one instructor id per class.
func Settle() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(SettleRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body!")
		}

		errors := validators.Struct(reqData)
		if errors == nil {
			errors = make(map[string]string)
		}
		if _, failed := errors["instructorIds"]; !failed && len(reqData.InstructorIDs) != len(reqData.ClassIDs) {
			errors["instructorIds"] = "instructorIds must have one entry per class!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedPayment", reqData)
		return c.Next()
	}
}

// PaymentIntentRequest is the body of POST /create-payment-intent.
type PaymentIntentRequest struct {
	Price float64 `json:"price" validate:"gt=0"`
}

func CreatePaymentIntent() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(PaymentIntentRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body!")
		}
		if errors := validators.Struct(reqData); errors != nil {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedPaymentIntent", reqData)
		return c.Next()
	}
}
