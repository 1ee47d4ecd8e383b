package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/avigneau/helloasso-bridge/internal/application/services"
	"github.com/avigneau/helloasso-bridge/internal/config"
	"github.com/avigneau/helloasso-bridge/internal/infrastructure/galette"
	"github.com/avigneau/helloasso-bridge/internal/infrastructure/helloasso"
	"github.com/avigneau/helloasso-bridge/internal/infrastructure/persistence/postgres"
	"github.com/avigneau/helloasso-bridge/internal/interfaces/rest/handlers"
	"github.com/avigneau/helloasso-bridge/internal/worker"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := cfg.Logger.NewLogger()
	slog.SetDefault(logger)

	logger.Info("starting helloasso bridge",
		"port", cfg.Server.Port,
		"log_level", cfg.Logger.Level,
	)

	if err := postgres.Migrate(&cfg.Database, logger); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	db, err := postgres.Connect(ctx, &cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	tokenRepo := postgres.NewTokenRepository(db)
	settingsRepo := postgres.NewSettingsRepository(db)
	historyRepo := postgres.NewHistoryRepository(db)

	providerClient := helloasso.NewClient(cfg.Provider)
	hostClient := galette.NewClient(cfg.Host)

	tokenManager := services.NewTokenManager(providerClient, tokenRepo, settingsRepo, logger)
	webhookService := services.NewWebhookService(
		historyRepo,
		hostClient,
		settingsRepo,
		helloasso.WebhookSourceIP,
		cfg.Host.MembershipExtension,
		logger,
	)
	checkoutService := services.NewCheckoutService(
		tokenManager,
		providerClient,
		hostClient,
		settingsRepo,
		cfg.Server.PublicURL,
		logger,
	)
	historyService := services.NewHistoryService(historyRepo)
	settingsService := services.NewSettingsService(settingsRepo, providerClient, tokenManager, logger)
	catalogService := services.NewCatalogService(hostClient, settingsRepo)

	h := handlers.NewHandlers(
		webhookService,
		checkoutService,
		historyService,
		settingsService,
		catalogService,
		logger,
	)

	router := handlers.NewRouter(h, logger, cfg.Server.ReadTimeout)

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	tokenRefresher := worker.NewTokenRefresher(
		tokenManager,
		settingsRepo,
		cfg.Worker.TokenRefreshInterval,
		logger,
	)

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	go tokenRefresher.Start(workerCtx)

	go func() {
		logger.Info("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	cancelWorkers()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}
