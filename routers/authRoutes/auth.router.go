package authRoutes

import (
	authController "sportify/controllers/auth"
	userValidator "sportify/validators/user"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App) {
	app.Post("/jwt", userValidator.Token(), authController.IssueToken)
}
