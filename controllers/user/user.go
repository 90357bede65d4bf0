package userController

import (
	"errors"
	"fmt"
	"strings"

	"sportify/middleware"
	"sportify/models"
	userValidator "sportify/validators/user"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ListUsers returns every registered user (admin only).
func ListUsers(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var users []models.User
		if err := db.WithContext(c.UserContext()).Order("id").Find(&users).Error; err != nil {
			return fmt.Errorf("list users: %w", err)
		}
		return middleware.JsonResponse(c, fiber.StatusOK, true, "User List.", users)
	}
}

// CreateUser registers a user on first login. Existing emails are left untouched.
func CreateUser(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData, ok := c.Locals("validatedUser").(*userValidator.CreateUserRequest)
		if !ok {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request data!")
		}

		tx := db.WithContext(c.UserContext())

		var existing models.User
		err := tx.Where("email = ?", reqData.Email).First(&existing).Error
		if err == nil {
			return middleware.JsonResponse(c, fiber.StatusOK, true, "user already exists", nil)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("find user: %w", err)
		}

		user := models.User{
			Name:  reqData.Name,
			Email: reqData.Email,
			Photo: reqData.Photo,
		}
		if err := tx.Create(&user).Error; err != nil {
			return fmt.Errorf("create user: %w", err)
		}

		return middleware.JsonResponse(c, fiber.StatusCreated, true, "User created successfully.", user)
	}
}

// IsAdmin answers whether the caller is an admin. Asking about another email is always false.
func IsAdmin(db *gorm.DB) fiber.Handler {
	return roleCheck(db, models.RoleAdmin, "admin")
}

// IsInstructor answers whether the caller is an instructor. Asking about another email is always false.
func IsInstructor(db *gorm.DB) fiber.Handler {
	return roleCheck(db, models.RoleInstructor, "instructor")
}

func roleCheck(db *gorm.DB, role, key string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		email := strings.TrimSpace(c.Params("email"))
		if !strings.EqualFold(email, middleware.CallerEmail(c)) {
			return middleware.JsonResponse(c, fiber.StatusOK, true, "Role checked.", fiber.Map{key: false})
		}

		ok, err := middleware.HasRole(c.UserContext(), db, middleware.CallerEmail(c), role)
		if err != nil {
			return fmt.Errorf("check %s role: %w", key, err)
		}
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Role checked.", fiber.Map{key: ok})
	}
}

// MakeAdmin promotes the user in the :id route parameter to admin.
func MakeAdmin(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Locals("id").(uint)

		res := db.WithContext(c.UserContext()).Model(&models.User{}).
			Where("id = ?", id).
			Update("role", models.RoleAdmin)
		if res.Error != nil {
			return fmt.Errorf("promote user %d: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return middleware.ErrorResponse(c, fiber.StatusNotFound, "User not found!")
		}

		return middleware.JsonResponse(c, fiber.StatusOK, true, "User is now an admin.", fiber.Map{"modifiedCount": res.RowsAffected})
	}
}

// MakeInstructor promotes the user in the :id route parameter to instructor
// and starts their popularity counter.
func MakeInstructor(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Locals("id").(uint)

		res := db.WithContext(c.UserContext()).Model(&models.User{}).
			Where("id = ?", id).
			Updates(map[string]any{
				"role":         models.RoleInstructor,
				"enroll_count": gorm.Expr("COALESCE(enroll_count, 0)"),
			})
		if res.Error != nil {
			return fmt.Errorf("promote user %d: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return middleware.ErrorResponse(c, fiber.StatusNotFound, "User not found!")
		}

		return middleware.JsonResponse(c, fiber.StatusOK, true, "User is now an instructor.", fiber.Map{"modifiedCount": res.RowsAffected})
	}
}
