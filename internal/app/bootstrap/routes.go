// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	cardsfeature "github.com/dalemusser/crccards/internal/app/features/cards"
	errorsfeature "github.com/dalemusser/crccards/internal/app/features/errors"
	healthfeature "github.com/dalemusser/crccards/internal/app/features/health"
	projectsfeature "github.com/dalemusser/crccards/internal/app/features/projects"
	"github.com/dalemusser/crccards/internal/app/system/dbconn"
	"github.com/dalemusser/crccards/internal/app/system/metrics"
	"github.com/dalemusser/crccards/internal/app/system/reqlog"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, the DB gateway, schema setup, and
// Startup have completed. Every feature receives the same gateway, so all
// requests share one client and connection pool.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	return newRouter(appCfg, deps.Mongo, logger), nil
}

// newRouter mounts middleware and feature routers over db.
func newRouter(appCfg AppConfig, db dbconn.Provider, logger *zap.Logger) http.Handler {
	errLog := errorsfeature.NewErrorLogger(logger)

	r := chi.NewRouter()

	r.Use(reqlog.RequestID)
	r.Use(reqlog.AccessLog(logger))
	r.Use(reqlog.Recoverer(logger))

	if appCfg.MetricsEnabled {
		m := metrics.New()
		r.Use(m.Middleware)
		r.Handle("/metrics", m.Handler())
	}

	r.NotFound(errorsfeature.NotFound)
	r.MethodNotAllowed(errorsfeature.MethodNotAllowed)

	// Health check endpoints for load balancers and diagnostics
	healthHandler := healthfeature.NewHandler(db, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	projectsHandler := projectsfeature.NewHandler(db, errLog, projectsfeature.Options{
		MaxBodyBytes:       appCfg.MaxBodyBytes,
		CascadeDeleteCards: appCfg.CascadeDeleteCards,
	}, logger)
	r.Mount("/projects", projectsfeature.Routes(projectsHandler))

	cardsHandler := cardsfeature.NewHandler(db, errLog, appCfg.MaxBodyBytes, logger)
	r.Mount("/cards", cardsfeature.Routes(cardsHandler))

	return r
}
