package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"contentapi/docs"
	"contentapi/internal/config"
	"contentapi/internal/database"
	"contentapi/internal/database/migration"
	handlers "contentapi/internal/http/handler"
	"contentapi/internal/http/middleware"
	"contentapi/internal/logging"
	"contentapi/internal/otel"
	"contentapi/internal/preview"
	"contentapi/internal/render"
	"contentapi/internal/repository/postgres"
	"contentapi/internal/service"
	"contentapi/internal/storage"
)

// @title Content API
// @version 1.0
// @description Delivers stored documents, previews and derived artifacts.
// @BasePath /content
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		loc = time.UTC
	}
	log := logging.New(os.Stdout, cfg.LogLevel, loc)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, log)
	if err != nil {
		log.Error("tracing_init_failed", "error", err.Error())
		os.Exit(1)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(sctx)
	}()

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(ctx, cfg.Database, log)
	if err != nil {
		log.Error("database_connect_failed", "error", err.Error())
		os.Exit(1)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := migration.EnsureMigrated(ctx, db, log, cfg.Database.Host); err != nil {
			log.Error("database_migration_failed", "error", err.Error())
			os.Exit(1)
		}
	}

	// Raw files live under DATA_PATH; an S3-compatible bucket hydrates missing ones when configured.
	storeOpts := []storage.Option{storage.WithLogger(log)}
	if cfg.MinIO.Enabled() {
		origin, err := storage.NewMinIO(cfg.MinIO)
		if err != nil {
			log.Error("origin_init_failed", "error", err.Error())
			os.Exit(1)
		}
		storeOpts = append(storeOpts, storage.WithOrigin(origin))
	}
	store := storage.NewFileStore(cfg.DataPath, storeOpts...)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	if err := database.RegisterPoolMetrics(reg, db); err != nil {
		log.Error("metrics_init_failed", "error", err.Error())
		os.Exit(1)
	}
	previewMetrics, err := preview.NewMetrics(reg)
	if err != nil {
		log.Error("metrics_init_failed", "error", err.Error())
		os.Exit(1)
	}
	httpMetrics, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.Error("metrics_init_failed", "error", err.Error())
		os.Exit(1)
	}

	thumbs := render.NewThumbnailer(render.FitzRasterizer{}, cfg.Preview.Width, cfg.Preview.Height)
	previews := preview.NewCache(store, thumbs, preview.WithLogger(log), preview.WithMetrics(previewMetrics))
	invalidator := preview.NewInvalidator(store, log, previewMetrics)

	contentSvc := service.NewContentService(service.Deps{
		Repo:         postgres.NewDocumentPostgres(db, log),
		Store:        store,
		Previews:     previews,
		Invalidator:  invalidator,
		Catalog:      cfg.Catalog,
		ImageBaseURL: cfg.ImageBaseURL,
		Log:          log,
	})

	app := fiber.New(fiber.Config{
		ErrorHandler:          handlers.ErrorHandler(log),
		DisableStartupMessage: true,
	})

	// Register global middleware
	app.Use(otelfiber.Middleware(otelfiber.WithNext(func(c *fiber.Ctx) bool {
		return c.Path() == middleware.MetricsPath
	})))
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.LoggerWithWriter(os.Stdout, loc))
	app.Use(httpMetrics.Handler())
	app.Use(middleware.SecurityHeaders(cfg.CSP))

	prefix := cfg.RoutePrefix()
	docs.SwaggerInfo.BasePath = prefix

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	// Register HTTP routes with injected service
	handlers.RegisterRoutes(app, prefix, db, contentSvc, reg)

	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(sctx); err != nil {
			log.Error("server_shutdown_failed", "error", err.Error())
		}
	}()

	addr := ":" + cfg.Port
	log.Info("server_starting", "addr", addr, "prefix", prefix, "data_path", store.Base(), "origin", cfg.MinIO.Enabled())

	if err := app.Listen(addr); err != nil {
		log.Error("server_failed", "error", err.Error())
		os.Exit(1)
	}
}
