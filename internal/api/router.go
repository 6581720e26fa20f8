package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"
)

// RouterConfig holds the optional pieces of the API router.
type RouterConfig struct {
	AuthEnabled bool
	Token       string
	// Events, if non-nil, is mounted at GET /events inside the auth group.
	Events http.Handler
	// Limiter, if non-nil, throttles the resolve endpoints.
	Limiter *rate.Limiter
}

// NewRouter creates a chi router with all API routes mounted.
func NewRouter(svc *Service, cfg RouterConfig) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(cfg.AuthEnabled, cfg.Token))

	// Catalogs.
	r.Get("/keyboard", h.Keyboard)
	r.Get("/keyboard/*", h.Note)
	r.Get("/keys", h.Keys)
	r.Get("/keys/{name}", h.Key)
	r.Get("/instruments", h.Instruments)
	r.Get("/instruments/{name}", h.Instrument)
	r.Get("/scales", h.Scales)
	r.Get("/scales/{name}", h.Scale)
	r.Get("/modes", h.Modes)
	r.Get("/modes/{name}", h.Mode)
	r.Get("/pitches", h.Pitches)
	r.Get("/displays", h.Displays)

	// Resolution.
	r.Group(func(r chi.Router) {
		r.Use(RateLimitMiddleware(cfg.Limiter))
		r.Get("/resolve", h.ResolveQuery)
		r.Post("/resolve", h.Resolve)
	})

	if cfg.Events != nil {
		r.Get("/events", cfg.Events.ServeHTTP)
	}

	return r
}
