package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/avigneau/helloasso-bridge/internal/interfaces/rest/middleware"
)

// NewRouter assembles the route table with the shared middleware chain.
func NewRouter(h *Handlers, logger *slog.Logger, requestTimeout time.Duration) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(logger))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Timeout(requestTimeout))

	r.Post("/webhook", h.Webhook)
	r.Post("/checkout", h.Checkout)
	r.Get("/history", h.History)
	r.Get("/settings", h.GetSettings)
	r.Put("/settings", h.PutSettings)
	r.Get("/settings/organization", h.VerifyOrganization)
	r.Get("/tiers", h.Tiers)
	r.Get("/healthz", h.Healthz)

	return r
}
