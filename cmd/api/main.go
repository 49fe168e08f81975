package main

import (
	"context"
	"log"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"docregistry/internal/config"
	handlers "docregistry/internal/http/handler"
	"docregistry/internal/http/middleware"
	"docregistry/internal/otel"
	"docregistry/internal/repository/jsonfile"
	"docregistry/internal/service"
	"docregistry/internal/storage"
)

func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	// Initialize tracing (degrades to noop when no collector is reachable)
	shutdownTracing, err := otel.Init(context.Background(), cfg.Location)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer func() {
		_ = shutdownTracing(context.Background())
	}()

	// Metadata snapshot store (single JSON file, atomic replace on save)
	snapStore, err := jsonfile.NewDocumentJSONFile(cfg.Store.DataFile, cfg.Store.FileMode)
	if err != nil {
		log.Fatalf("failed to initialize snapshot store: %v", err)
	}

	// Blob store (flat directory of attachment files)
	blobStore, err := storage.NewDisk(cfg.Store.UploadDir)
	if err != nil {
		log.Fatalf("failed to initialize blob storage: %v", err)
	}
	if err := blobStore.EnsureReady(context.Background()); err != nil {
		log.Fatalf("failed to prepare blob storage: %v", err)
	}

	docSvc := service.NewDocumentService(blobStore, snapStore)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	// Register global middleware
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(cfg.Location))
	app.Use(otelfiber.Middleware())

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	promMW, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}
	app.Use(promMW.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// Register HTTP routes with the injected service
	handlers.RegisterRoutes(app, blobStore, docSvc)

	addr := ":" + cfg.Port

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
