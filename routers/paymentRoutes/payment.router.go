package paymentRoutes

import (
	enrollmentController "sportify/controllers/enrollment"
	paymentController "sportify/controllers/payment"
	"sportify/middleware"
	"sportify/services"
	"sportify/utils"
	paymentValidator "sportify/validators/payment"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupPaymentRoutes(app *fiber.App, db *gorm.DB, settler *services.Settler, gateway *utils.PaymentGateway) {
	app.Post("/create-payment-intent", middleware.JWTMiddleware, paymentValidator.CreatePaymentIntent(), paymentController.CreatePaymentIntent(gateway))

	paymentGroup := app.Group("/payments", middleware.JWTMiddleware)
	paymentGroup.Post("/", paymentValidator.Settle(), paymentController.Settle(settler))
	paymentGroup.Get("/", paymentController.ListPayments(db))

	app.Get("/enrollments", middleware.JWTMiddleware, enrollmentController.ListEnrollments(db))
}
