package userRoutes

import (
	userController "sportify/controllers/user"
	"sportify/middleware"
	"sportify/models"
	"sportify/validators"
	userValidator "sportify/validators/user"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupUserRoutes(app *fiber.App, db *gorm.DB) {
	adminOnly := middleware.RequireRole(db, models.RoleAdmin)

	userGroup := app.Group("/users")
	userGroup.Get("/", middleware.JWTMiddleware, adminOnly, userController.ListUsers(db))
	userGroup.Post("/", userValidator.CreateUser(), userController.CreateUser(db))

	userGroup.Get("/admin/:email", middleware.JWTMiddleware, userController.IsAdmin(db))
	userGroup.Patch("/admin/:id", middleware.JWTMiddleware, adminOnly, validators.IDParam("id"), userController.MakeAdmin(db))

	userGroup.Get("/instructor/:email", middleware.JWTMiddleware, userController.IsInstructor(db))
	userGroup.Patch("/instructor/:id", middleware.JWTMiddleware, adminOnly, validators.IDParam("id"), userController.MakeInstructor(db))

	instructorGroup := app.Group("/instructors")
	instructorGroup.Get("/", userController.ListInstructors(db))
	instructorGroup.Get("/popular", userController.PopularInstructors(db))

	app.Get("/instructor-stats/:name", userController.InstructorStats(db))
}
