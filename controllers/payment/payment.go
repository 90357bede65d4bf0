package paymentController

import (
	"errors"
	"fmt"
	"strings"

	"sportify/middleware"
	"sportify/models"
	"sportify/services"
	"sportify/utils"
	paymentValidator "sportify/validators/payment"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Settle records a checkout and enrolls the caller in the purchased classes.
func Settle(settler *services.Settler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData, ok := c.Locals("validatedPayment").(*paymentValidator.SettleRequest)
		if !ok {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request data!")
		}
		if !strings.EqualFold(reqData.Email, middleware.CallerEmail(c)) {
			return middleware.ErrorResponse(c, fiber.StatusForbidden, "forbidden access")
		}

		result, err := settler.Settle(c.UserContext(), services.Submission{
			Email:         middleware.CallerEmail(c),
			ClassIDs:      reqData.ClassIDs,
			InstructorIDs: reqData.InstructorIDs,
			CartIDs:       reqData.CartIDs,
			TransactionID: reqData.TransactionID,
			Price:         reqData.Price,
			Date:          reqData.Date,
		})
		if errors.Is(err, services.ErrClassesFull) {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, services.ErrClassesFull.Error())
		}
		if err != nil {
			return fmt.Errorf("settle payment: %w", err)
		}

		return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment settled!", result)
	}
}

// ListPayments returns the caller's payment history, newest first.
func ListPayments(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		email := strings.TrimSpace(c.Query("email"))
		if email == "" {
			return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment history.", []models.Payment{})
		}
		if !strings.EqualFold(email, middleware.CallerEmail(c)) {
			return middleware.ErrorResponse(c, fiber.StatusForbidden, "forbidden access")
		}

		var payments []models.Payment
		if err := db.WithContext(c.UserContext()).
			Where("email = ?", middleware.CallerEmail(c)).
			Order("date DESC, id DESC").
			Find(&payments).Error; err != nil {
			return fmt.Errorf("list payments: %w", err)
		}
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment history.", payments)
	}
}

// CreatePaymentIntent opens a card payment with the gateway and hands the client secret back.
func CreatePaymentIntent(gateway *utils.PaymentGateway) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData, ok := c.Locals("validatedPaymentIntent").(*paymentValidator.PaymentIntentRequest)
		if !ok {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request data!")
		}

		intent, err := gateway.CreatePaymentIntent(c.UserContext(), reqData.Price, "usd")
		if errors.Is(err, utils.ErrGatewayDisabled) {
			return middleware.ErrorResponse(c, fiber.StatusServiceUnavailable, err.Error())
		}
		if err != nil {
			return fiber.NewError(fiber.StatusBadGateway, err.Error())
		}

		return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment intent created.", fiber.Map{
			"clientSecret": intent.ClientSecret,
		})
	}
}
