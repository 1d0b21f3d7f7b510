package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"contentapi/internal/http/middleware"
	"contentapi/internal/service"
)

// RegisterRoutes attaches the probes and metrics endpoint to app and the content routes below
// prefix, e.g. "/v2/content". File routes are registered before the catch-all key route.
func RegisterRoutes(app *fiber.App, prefix string, db *sql.DB, svc service.ContentService, metrics prometheus.Gatherer) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())
	if metrics != nil {
		app.Get(middleware.MetricsPath, adaptor.HTTPHandler(promhttp.HandlerFor(metrics, promhttp.HandlerOpts{})))
	}

	content := app.Group(prefix)

	content.Get("/file/tools/ext/:ext", ExtensionIcon())
	content.Get("/file/:uuid/preview", GetPreview(svc))
	content.Delete("/file/:uuid/cache", ClearCache(svc))
	content.Get("/file/:uuid", GetFile(svc))

	content.Get("/:company/:objectType/:documentType/:objectId?/:culture?", GetByKey(svc))
}
