package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"mnuda-backend/infrastructure/di"
	"mnuda-backend/interfaces/http/rest/handlers"
	"mnuda-backend/interfaces/http/rest/middleware"
)

// Router creates and configures the HTTP router
type Router struct {
	container *di.Container
	logger    *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(container *di.Container) *Router {
	return &Router{
		container: container,
		logger:    container.Logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	if rt.container.Config.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:3000", "https://*.mnuda.com"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	sessionHandler := handlers.NewSessionHandler(
		rt.container.CreateSession,
		rt.container.ImportSession,
		rt.container.QueryBus,
		rt.logger,
	)
	nodeHandler := handlers.NewNodeHandler(
		rt.container.AddNode,
		rt.container.Bootstrap,
		rt.container.RunSearch,
		rt.container.CommandBus,
		rt.container.QueryBus,
		rt.logger,
	)
	traceHandler := handlers.NewTraceHandler(
		rt.container.TracePerson,
		rt.container.TraceAddress,
		rt.container.QueryBus,
		rt.logger,
	)

	router.Route("/api/v1", func(r chi.Router) {
		r.Post("/sessions", sessionHandler.CreateSession)
		r.Post("/sessions/import", sessionHandler.ImportSession)

		r.Route("/sessions/{sessionID}", func(r chi.Router) {
			r.Get("/", sessionHandler.GetSession)
			r.Get("/export", sessionHandler.ExportSession)

			r.Route("/nodes", func(r chi.Router) {
				r.Post("/", nodeHandler.CreateNode)
				r.Get("/", nodeHandler.ListNodes)
				r.Post("/bootstrap", nodeHandler.Bootstrap)

				r.Route("/{nodeID}", func(r chi.Router) {
					r.Get("/", nodeHandler.GetNode)
					r.Delete("/", nodeHandler.DeleteNode)
					r.Post("/search", nodeHandler.RunSearch)
					r.Put("/title", nodeHandler.SetTitle)
					r.Get("/lineage", nodeHandler.GetLineage)
					r.Get("/entities", nodeHandler.GetEntities)
				})
			})

			r.Route("/trace", func(r chi.Router) {
				r.Post("/person", traceHandler.TracePerson)
				r.Post("/address", traceHandler.TraceAddress)
			})
		})
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck handles readiness check requests
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
