package cartController

import (
	"errors"
	"fmt"
	"strings"

	"sportify/middleware"
	"sportify/models"
	cartValidator "sportify/validators/cart"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ListCart returns the cart of ?email=, which must be the caller's.
func ListCart(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		email := strings.TrimSpace(c.Query("email"))
		if email == "" {
			return middleware.JsonResponse(c, fiber.StatusOK, true, "Cart items.", []models.CartItem{})
		}
		if !strings.EqualFold(email, middleware.CallerEmail(c)) {
			return middleware.ErrorResponse(c, fiber.StatusForbidden, "forbidden access")
		}

		var items []models.CartItem
		if err := db.WithContext(c.UserContext()).
			Where("email = ?", middleware.CallerEmail(c)).
			Order("id").
			Find(&items).Error; err != nil {
			return fmt.Errorf("list cart: %w", err)
		}
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Cart items.", items)
	}
}

// AddToCart puts a class into the caller's cart with a snapshot of its fields.
func AddToCart(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData, ok := c.Locals("validatedCartItem").(*cartValidator.AddToCartRequest)
		if !ok {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request data!")
		}

		tx := db.WithContext(c.UserContext())

		var class models.Class
		if err := tx.First(&class, reqData.ClassID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return middleware.ErrorResponse(c, fiber.StatusNotFound, "Class not found!")
			}
			return fmt.Errorf("load class %d: %w", reqData.ClassID, err)
		}

		item := models.CartItem{
			ClassID:         class.ID,
			Email:           middleware.CallerEmail(c),
			ClassName:       class.Name,
			Image:           class.Image,
			Price:           class.Price,
			InstructorID:    class.InstructorID,
			InstructorName:  class.InstructorName,
			InstructorEmail: class.InstructorEmail,
		}
		if err := tx.Create(&item).Error; err != nil {
			return fmt.Errorf("add to cart: %w", err)
		}

		return middleware.JsonResponse(c, fiber.StatusCreated, true, "Added to cart.", item)
	}
}

// RemoveFromCart deletes one of the caller's cart items.
func RemoveFromCart(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Locals("id").(uint)

		res := db.WithContext(c.UserContext()).
			Where("id = ? AND email = ?", id, middleware.CallerEmail(c)).
			Delete(&models.CartItem{})
		if res.Error != nil {
			return fmt.Errorf("delete cart item %d: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return middleware.ErrorResponse(c, fiber.StatusNotFound, "Cart item not found!")
		}

		return middleware.JsonResponse(c, fiber.StatusOK, true, "Removed from cart.", fiber.Map{"deletedCount": res.RowsAffected})
	}
}
