package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/varsilias/portfolio-relay/internal/middleware"
)

// Limits are optional; a nil limiter lets every request through.
type Limits struct {
	Chat    *middleware.RateLimiter
	Contact *middleware.RateLimiter
}

func RegisterRoutes(mux chi.Router, h *Handlers, limits Limits) {
	mux.Get("/healthz", h.Health)
	mux.Get("/version", h.Version)

	mux.Route("/api", func(r chi.Router) {
		r.Get("/profile", h.Profile)
		r.With(limits.Chat.Middleware).Post("/chat", h.Chat)
		r.With(limits.Contact.Middleware).Post("/contact", h.Contact)
	})
}
