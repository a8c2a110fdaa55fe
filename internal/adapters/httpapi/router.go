package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/meridian-travel/itinerary-api/internal/app/combinations"
	"github.com/meridian-travel/itinerary-api/internal/app/itineraries"
)

// RouterConfig carries the router's dependencies and the header names the
// gateway auth shim trusts.
type RouterConfig struct {
	Combinations *combinations.Service
	Itineraries  *itineraries.Service

	Logger *slog.Logger

	CORSOrigins      []string
	CallerHeader     string
	PrivilegedHeader string
}

// NewRouter constructs the API HTTP router. This is intentionally a thin
// adapter: handlers decode, delegate to the app services, and encode; every
// decision lives below.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	if cfg.Logger != nil {
		r.Use(NewSlogLogger(cfg.Logger))
	}
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", cfg.CallerHeader, cfg.PrivilegedHeader},
	}).Handler)
	r.Use(NewGatewayAuthMiddleware(cfg.CallerHeader, cfg.PrivilegedHeader))

	// Health endpoint is used by infra checks and stays unauthenticated.
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	ch := &combinationsHandlers{svc: cfg.Combinations}
	r.Route("/combination-entries", func(r chi.Router) {
		r.Get("/", ch.list)
		r.Post("/", ch.create)
		r.Get("/entry", ch.get)
		r.Put("/entry", ch.update)
		r.Delete("/entry", ch.delete)
	})
	r.Route("/combinations", func(r chi.Router) {
		r.Get("/lookup", ch.lookup)
		r.Get("/suggestions", ch.suggestions)
	})

	ih := &itinerariesHandlers{svc: cfg.Itineraries}
	r.Route("/itineraries", func(r chi.Router) {
		r.Get("/", ih.list)
		r.Post("/", ih.create)
		r.Route("/{itineraryId}", func(r chi.Router) {
			r.Get("/", ih.get)
			r.Patch("/", ih.patch)
			r.Post("/duplicate", ih.duplicate)
			r.Get("/editability", ih.editability)
		})
	})

	return r
}
