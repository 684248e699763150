package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/atelierhq/storefront/internal/api"
	"github.com/atelierhq/storefront/internal/api/handler"
	"github.com/atelierhq/storefront/internal/auth"
	"github.com/atelierhq/storefront/internal/config"
	"github.com/atelierhq/storefront/internal/service"
	"github.com/atelierhq/storefront/internal/storage/sql"
	"github.com/joho/godotenv"
)

func main() {
	// Local development convenience; missing .env is fine
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Create data directory if needed (for SQLite)
	if cfg.Database.Driver == "sqlite3" {
		if err := os.MkdirAll("data", 0755); err != nil {
			logger.Error("failed to create data directory", "error", err)
			os.Exit(1)
		}
	}

	store, err := sql.New(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		logger.Error("failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	authSvc := service.NewAuthService(store, logger)
	regionSvc := service.NewRegionService(store)
	messageSvc := service.NewMessageService(store)
	settingsSvc := service.NewSettingsService(store, cfg.Store)

	var authFlow *handler.AuthComponents
	if cfg.OIDC.Enabled {
		secret, err := cfg.OIDC.GetSessionSecretBytes()
		if err != nil {
			logger.Error("invalid session secret", "error", err)
			os.Exit(1)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		provider, err := auth.NewOIDCProvider(ctx,
			cfg.OIDC.IssuerURL, cfg.OIDC.ClientID, cfg.OIDC.ClientSecret, cfg.OIDC.RedirectURL,
			cfg.OIDC.GetScopes(), cfg.OIDC.GetAllowedDomains())
		cancel()
		if err != nil {
			logger.Error("failed to initialize OIDC provider", "error", err)
			os.Exit(1)
		}

		sessions, err := auth.NewSessionManager(secret, cfg.OIDC.SessionDuration, cfg.OIDC.SecureCookies)
		if err != nil {
			logger.Error("failed to initialize session manager", "error", err)
			os.Exit(1)
		}

		states, err := auth.NewStateStore(secret, cfg.OIDC.SecureCookies)
		if err != nil {
			logger.Error("failed to initialize state store", "error", err)
			os.Exit(1)
		}

		authFlow = &handler.AuthComponents{
			Provider: provider,
			Sessions: sessions,
			States:   states,
		}
	} else {
		logger.Warn("OIDC is disabled; admin endpoints will reject all requests")
	}

	router := api.NewRouter(api.Deps{
		Store:     store,
		Auth:      authSvc,
		Regions:   regionSvc,
		Messages:  messageSvc,
		Settings:  settingsSvc,
		AuthFlow:  authFlow,
		Payments:  cfg.Payments,
		RateLimit: cfg.RateLimit,
		Logger:    logger,
	})

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	logger.Info("starting storefront API", "addr", cfg.Server.Addr())

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
