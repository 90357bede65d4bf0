package authController

import (
	"sportify/middleware"
	userValidator "sportify/validators/user"

	"github.com/gofiber/fiber/v2"
)

// IssueToken mints a bearer token for the posted email.
func IssueToken(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedToken").(*userValidator.TokenRequest)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request data!")
	}

	token, err := middleware.GenerateJWT(reqData.Email)
	if err != nil {
		return err
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Token issued!", fiber.Map{"token": token})
}
