package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/example/opsdesk/internal/cache"
	"github.com/example/opsdesk/internal/commerce"
	"github.com/example/opsdesk/internal/config"
	"github.com/example/opsdesk/internal/database"
	"github.com/example/opsdesk/internal/events"
	"github.com/example/opsdesk/internal/middleware"
	"github.com/example/opsdesk/internal/routes"
	"github.com/example/opsdesk/internal/search"
)

func main() {
	cfg := config.Load()
	db := database.Connect(cfg.DatabaseURL)

	client := commerce.NewClient(cfg.CommerceBaseURL, cfg.CommerceAuthURL, cfg.CommerceSecret)

	var store search.Store
	if redisCache := cache.New(cfg.RedisAddr); redisCache != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := redisCache.Ping(ctx)
		cancel()
		if err != nil {
			log.Printf("Redis unavailable, search cache disabled: %v", err)
		} else {
			store = redisCache
			defer redisCache.Close()
		}
	}

	typeahead := search.New(func(ctx context.Context, query string) ([]byte, error) {
		return client.SearchProducts(query)
	}, store, cfg.SearchInterval, cfg.SearchCacheTTL)

	var publisher *events.Publisher
	if cfg.AMQPURL != "" {
		p, err := events.NewPublisher(cfg.AMQPURL, cfg.OrderExchange)
		if err != nil {
			log.Printf("RabbitMQ unavailable, order events disabled: %v", err)
		} else {
			publisher = p
			defer publisher.Close()
		}
	}

	app := fiber.New(fiber.Config{
		AppName: "OpsDesk Backend",
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(middleware.MetricsMiddleware())

	routes.Register(app, db, cfg, client, typeahead, publisher)

	if _, err := client.Token(); err != nil {
		log.Printf("Commerce token warm-up failed: %v", err)
	}

	log.Printf("Starting server on :%s", cfg.AppPort)
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		log.Fatalf("fiber.Listen error: %v", err)
	}
}
