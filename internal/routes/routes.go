package routes

import (
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/example/opsdesk/internal/commerce"
	"github.com/example/opsdesk/internal/config"
	"github.com/example/opsdesk/internal/events"
	"github.com/example/opsdesk/internal/handlers"
	"github.com/example/opsdesk/internal/middleware"
	"github.com/example/opsdesk/internal/pricing"
	"github.com/example/opsdesk/internal/search"
	"github.com/example/opsdesk/internal/services"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config, client *commerce.Client, typeahead *search.Typeahead, publisher *events.Publisher) {
	telegramService := services.NewTelegramService(cfg.TelegramBotToken, cfg.TelegramOpsChatID)
	calc := pricing.Calculator{SellerStateCode: cfg.SellerStateCode}

	authHandler := handlers.NewAuthHandler(db, cfg)
	staffHandler := handlers.NewStaffHandler(db)
	settingsHandler := handlers.NewSettingsHandler(db)
	customerHandler := handlers.NewCustomerHandler(client)
	productHandler := handlers.NewProductHandler(client, typeahead)
	procurementHandler := handlers.NewProcurementHandler(client)
	orderHandler := handlers.NewOrderHandler(db, calc, client, publisher, telegramService)

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)

	// Protected routes
	protected := api.Group("", middleware.AuthMiddleware(cfg))

	protected.Get("/auth/me", authHandler.Me)

	staff := protected.Group("/staff")
	staff.Get("/", staffHandler.List)
	staff.Post("/", staffHandler.Create)
	staff.Get("/:id", staffHandler.Get)
	staff.Put("/:id", staffHandler.Update)
	staff.Delete("/:id", staffHandler.Delete)

	settings := protected.Group("/settings/:registry")
	settings.Get("/", settingsHandler.List)
	settings.Post("/", settingsHandler.Create)
	settings.Put("/:id", settingsHandler.Update)
	settings.Delete("/:id", settingsHandler.Delete)

	customers := protected.Group("/customers")
	customers.Get("/", customerHandler.Search)
	customers.Get("/:id", customerHandler.Get)

	profiles := protected.Group("/business-profiles")
	profiles.Get("/", customerHandler.SearchBusinessProfiles)
	profiles.Post("/", customerHandler.CreateBusinessProfile)
	profiles.Get("/:id", customerHandler.GetBusinessProfile)

	products := protected.Group("/products")
	products.Get("/", productHandler.Search)
	products.Get("/:id", productHandler.Get)

	procurements := protected.Group("/procurements")
	procurements.Get("/", procurementHandler.List)
	procurements.Post("/", procurementHandler.Create)

	orders := protected.Group("/orders")
	orders.Post("/", orderHandler.CreateDraft)
	orders.Get("/", orderHandler.ListDrafts)
	orders.Get("/:id", orderHandler.GetDraft)
	orders.Put("/:id/customer", orderHandler.UpdateCustomer)
	orders.Post("/:id/items", orderHandler.AddItem)
	orders.Put("/:id/items/:itemID", orderHandler.UpdateItem)
	orders.Delete("/:id/items/:itemID", orderHandler.RemoveItem)
	orders.Post("/:id/submit", orderHandler.SubmitDraft)
}
