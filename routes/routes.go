package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/upb/psp-router/app"
	"github.com/upb/psp-router/config"
	"github.com/upb/psp-router/handlers"
	"github.com/upb/psp-router/middleware"
	"go.uber.org/zap"
)

// SetupRouterRoutes configures the router service's routes and middleware
func SetupRouterRoutes(deps *app.Dependencies) http.Handler {
	r := newRouter(deps.Config, deps.Logger)

	// CORS middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "https://*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	routeHandler := handlers.NewRouteHandler(deps.Routing, deps.Logger)
	healthHandler := handlers.NewHealthHandler(deps.Policy, deps.Providers, deps.Config.Routing.DefaultProvider, deps.Logger)

	r.Get("/health", healthHandler.HandleHealth)
	r.Post("/route", routeHandler.HandleRoute)

	return r
}

// SetupSimulatorRoutes configures the PSP simulator's routes and middleware
func SetupSimulatorRoutes(deps *app.SimulatorDependencies) http.Handler {
	r := newRouter(deps.Config, deps.Logger)

	pspHandler := handlers.NewPSPHandler(deps.Model, deps.Logger)

	r.Get("/health", handlers.SimulatorHealth(deps.Model.Parameters().Baseline, deps.Logger))
	r.Post("/process", pspHandler.HandleProcess)

	return r
}

func newRouter(cfg *config.Config, logger *zap.Logger) chi.Router {
	r := chi.NewRouter()

	// Core middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(cfg.Server.WriteTimeout))

	r.NotFound(handlers.NotFound)

	return r
}
