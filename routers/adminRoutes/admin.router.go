package adminRoutes

import (
	adminController "sportify/controllers/admin"
	"sportify/middleware"
	"sportify/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupAdminRoutes(app *fiber.App, db *gorm.DB) {
	adminGroup := app.Group("/admin", middleware.JWTMiddleware, middleware.RequireRole(db, models.RoleAdmin))

	adminGroup.Get("/stats", adminController.Stats(db))
	adminGroup.Get("/reconcile", adminController.Reconcile(db))
}
