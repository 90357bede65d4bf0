package classRoutes

import (
	classController "sportify/controllers/class"
	"sportify/middleware"
	"sportify/models"
	"sportify/validators"
	classValidator "sportify/validators/class"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupClassRoutes(app *fiber.App, db *gorm.DB) {
	adminOnly := middleware.RequireRole(db, models.RoleAdmin)
	instructorOnly := middleware.RequireRole(db, models.RoleInstructor)

	classGroup := app.Group("/classes")

	// Public listings
	classGroup.Get("/", classController.ListClasses(db))
	classGroup.Get("/approved", classController.ApprovedClasses(db))
	classGroup.Get("/popular", classController.PopularClasses(db))

	// Instructor
	classGroup.Get("/mine", middleware.JWTMiddleware, instructorOnly, classController.MyClasses(db))
	classGroup.Post("/", middleware.JWTMiddleware, instructorOnly, classValidator.CreateClass(), classController.CreateClass(db))

	// Admin moderation
	classGroup.Patch("/status/:id", middleware.JWTMiddleware, adminOnly, validators.IDParam("id"), classValidator.UpdateStatus(), classController.UpdateStatus(db))
	classGroup.Patch("/feedback/:id", middleware.JWTMiddleware, adminOnly, validators.IDParam("id"), classValidator.Feedback(), classController.SendFeedback(db))
}
