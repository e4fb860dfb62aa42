package main

import (
	"context"
	"log"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"contentapi/internal/auth"
	"contentapi/internal/config"
	"contentapi/internal/database"
	"contentapi/internal/database/migration"
	handlers "contentapi/internal/http/handler"
	"contentapi/internal/http/middleware"
	"contentapi/internal/otel"
	"contentapi/internal/repository/surreal"
	"contentapi/internal/schema"
	"contentapi/internal/service"
)

func main() {
	ctx := context.Background()

	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	// Initialize tracing (noop when OTEL_SDK_DISABLED=true)
	shutdownTracing, err := otel.Init(ctx)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer func() { _ = shutdownTracing(ctx) }()

	// Connect to SurrealDB
	db, err := database.NewSurrealDB(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer func() { _ = db.Close(ctx) }()

	// The registry is the fixed model set; the schema pass pushes its
	// field constraints into the store.
	registry := schema.New()
	if err := migration.EnsureSchema(ctx, db, registry); err != nil {
		log.Fatalf("failed to define store schema: %v", err)
	}

	// Token authenticator against the external issuer's key set
	authn, err := auth.NewTokenAuthenticator(ctx, cfg.Auth)
	if err != nil {
		log.Fatalf("failed to initialize token authenticator: %v", err)
	}

	// Repository and gateway service
	repo := surreal.NewDocumentSurreal(db)
	gw := service.NewModelGateway(registry, repo)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	// Register global middleware
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger())
	app.Use(middleware.CORS())
	app.Use(otelfiber.Middleware())

	promMW, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}
	app.Use(promMW.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Register HTTP routes with injected collaborators
	handlers.RegisterRoutes(app, cfg, registry, authn, gw, repo)

	addr := ":" + cfg.Port
	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
