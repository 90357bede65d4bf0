package routers

import (
	"errors"
	"log"

	"sportify/middleware"
	"sportify/routers/adminRoutes"
	"sportify/routers/authRoutes"
	"sportify/routers/cartRoutes"
	"sportify/routers/classRoutes"
	"sportify/routers/paymentRoutes"
	"sportify/routers/userRoutes"
	"sportify/services"
	"sportify/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Deps are the process-wide handles shared by every route.
type Deps struct {
	DB          *gorm.DB
	Settler     *services.Settler
	Gateway     *utils.PaymentGateway
	CorsOrigins string
	// AccessLog enables the request logger middleware.
	AccessLog bool
}

// NewApp builds the fiber application with every route registered.
func NewApp(deps Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Sportify",
		ErrorHandler: errorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))

	if deps.CorsOrigins == "" {
		deps.CorsOrigins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: deps.CorsOrigins,
		AllowMethods: "GET,POST,PATCH,DELETE",
		AllowHeaders: "Content-Type,Authorization",
	}))

	if deps.AccessLog {
		app.Use(logger.New(logger.Config{
			Format: "[${time}] ${locals:requestid} ${ip} ${method} ${path} ${status} ${latency}\n",
		}))
	}

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Sportify Server is running..")
	})

	authRoutes.SetupAuthRoutes(app)
	userRoutes.SetupUserRoutes(app, deps.DB)
	classRoutes.SetupClassRoutes(app, deps.DB)
	cartRoutes.SetupCartRoutes(app, deps.DB)
	paymentRoutes.SetupPaymentRoutes(app, deps.DB, deps.Settler, deps.Gateway)
	adminRoutes.SetupAdminRoutes(app, deps.DB)

	return app
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
		message = fiberErr.Message
	}

	log.Printf("[HTTP] %s %s failed (%d): %v", c.Method(), c.Path(), code, err)
	return middleware.ErrorResponse(c, code, message)
}
