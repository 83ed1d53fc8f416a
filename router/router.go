package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"styledecor-server/errors"
	"styledecor-server/handlers"
	"styledecor-server/middleware"
)

func NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "styledecor-server",
		ErrorHandler: errors.FiberErrorHandler,
	})
	app.Use(recover.New())
	app.Use(cors.New())
	return app
}

func SetupRoutes(app *fiber.App, h *handlers.Handler, identify fiber.Handler, metrics fiber.Handler, log *zap.Logger) {
	api := app.Group("/",
		requestid.New(requestid.Config{Generator: uuid.NewString}),
		middleware.RequestLogger(log),
	)
	api.Get("/", h.GetRoot)
	api.Get("/metrics", metrics)

	//Services
	services := api.Group("/services")
	services.Get("/home", h.GetHomeServices)
	services.Get("/", h.GetServices)
	services.Get("/:id", h.GetService)

	//Bookings
	bookings := api.Group("/bookings")
	bookings.Get("/", h.GetBookings)
	bookings.Post("/", h.CreateBooking)
	bookings.Delete("/:id", h.DeleteBooking)

	//Payments
	api.Post("/create-checkout-session", h.CreateCheckoutSession)
	api.Patch("/payment-success", h.ConfirmPayment)
	api.Get("/payments", identify, h.GetPayments)
}
