// Package handlers wires the route handlers to the application
// services.
package handlers

import (
	"log/slog"

	"github.com/avigneau/helloasso-bridge/internal/application/services"
)

type Handlers struct {
	webhookService  *services.WebhookService
	checkoutService *services.CheckoutService
	historyService  *services.HistoryService
	settingsService *services.SettingsService
	catalogService  *services.CatalogService
	logger          *slog.Logger
}

func NewHandlers(
	webhookService *services.WebhookService,
	checkoutService *services.CheckoutService,
	historyService *services.HistoryService,
	settingsService *services.SettingsService,
	catalogService *services.CatalogService,
	logger *slog.Logger,
) *Handlers {
	return &Handlers{
		webhookService:  webhookService,
		checkoutService: checkoutService,
		historyService:  historyService,
		settingsService: settingsService,
		catalogService:  catalogService,
		logger:          logger,
	}
}
