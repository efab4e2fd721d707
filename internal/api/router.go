// Package api wires the HTTP routes and middleware for the ODIA backend.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/odiadev/odia-backend/internal/api/handlers"
	"github.com/odiadev/odia-backend/internal/api/middleware"
	"github.com/odiadev/odia-backend/internal/config"
)

// NewRouter creates the HTTP router with all routes and middleware.
func NewRouter(cfg *config.Config, h *handlers.Handlers) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.RateLimit(cfg.RateLimit.PerSecond, cfg.RateLimit.Burst))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Twilio-Signature"},
		MaxAge:         300,
	}))

	r.Get("/health", h.Health)
	r.Get("/version", h.Version)
	r.Get("/metrics", h.Metrics)

	r.Route("/webhooks", func(r chi.Router) {
		r.With(middleware.TwilioSignature(cfg.Twilio.AuthToken, cfg.PublicURL)).
			Post("/twilio", h.TwilioWebhook)
		r.Post("/telegram", h.TelegramWebhook)
	})

	r.Post("/speak", h.Speak)
	r.Post("/billing/create-checkout", h.CreateCheckout)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"not found"}`))
	})

	return r
}
