package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Pinger reports whether a backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// RouterConfig holds the transport-level settings of the router
type RouterConfig struct {
	AllowedOrigins []string
	RequestTimeout time.Duration
}

// Handlers groups the API handlers mounted under /api/v1
type Handlers struct {
	Outcomes *OutcomeHandler
	Matches  *MatchHandler
	VIP      *VIPHandler
}

// NewRouter builds the service router: health and metrics endpoints at the root
// and the identity-protected API under /api/v1.
func NewRouter(cfg RouterConfig, handlers Handlers, ready Pinger, logger zerolog.Logger) http.Handler {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	auth := NewAuthMiddleware(logger)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(cfg.RequestTimeout))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", HeaderUserID, HeaderUserRole},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health and monitoring endpoints
	r.Get("/health", healthHandler)
	r.Get("/ready", readyHandler(ready))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(auth.Identity)
		handlers.Outcomes.RegisterRoutes(r, auth)
		handlers.Matches.RegisterRoutes(r, auth)
		handlers.VIP.RegisterRoutes(r, auth)
	})

	return r
}

// healthHandler returns 200 if service is running
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// readyHandler returns 200 if service is ready to accept traffic
func readyHandler(store Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("Redis unavailable"))
			return
		}

		w.WriteHeader(http.StatusOK)
		w.Write([]byte("READY"))
	}
}
