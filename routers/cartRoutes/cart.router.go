package cartRoutes

import (
	cartController "sportify/controllers/cart"
	"sportify/middleware"
	"sportify/validators"
	cartValidator "sportify/validators/cart"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupCartRoutes(app *fiber.App, db *gorm.DB) {
	cartGroup := app.Group("/carts", middleware.JWTMiddleware)

	cartGroup.Get("/", cartController.ListCart(db))
	cartGroup.Post("/", cartValidator.AddToCart(), cartController.AddToCart(db))
	cartGroup.Delete("/:id", validators.IDParam("id"), cartController.RemoveFromCart(db))
}
