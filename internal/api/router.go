package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/atelierhq/storefront/internal/api/handler"
	"github.com/atelierhq/storefront/internal/api/middleware"
	"github.com/atelierhq/storefront/internal/config"
	"github.com/atelierhq/storefront/internal/domain"
	"github.com/atelierhq/storefront/internal/service"
	"github.com/atelierhq/storefront/internal/storage"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
)

// Deps bundles everything the router needs.
type Deps struct {
	Store     storage.Storage
	Auth      *service.AuthService
	Regions   *service.RegionService
	Messages  *service.MessageService
	Settings  *service.SettingsService
	AuthFlow  *handler.AuthComponents
	Payments  config.PaymentConfig
	RateLimit config.RateLimitConfig
	Logger    *slog.Logger
}

// NewRouter creates a new HTTP router with all routes configured.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(deps.Logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)

	// Health check (no auth required)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Staff session endpoints
	authHandler := handler.NewAuthHandler(deps.AuthFlow, deps.Logger)
	r.Route("/auth", func(r chi.Router) {
		r.Get("/login", authHandler.Login)
		r.Get("/callback", authHandler.Callback)
		r.Get("/logout", authHandler.Logout)
		r.Get("/session", authHandler.Session)
	})

	adminGate := middleware.AdminSession(nil)
	if deps.AuthFlow != nil {
		adminGate = middleware.AdminSession(deps.AuthFlow.Sessions)
	}

	configHandler := handler.NewStoreConfigHandler(deps.Settings, deps.Regions, deps.Payments)
	regionHandler := handler.NewRegionHandler(deps.Regions)
	messageHandler := handler.NewMessageHandler(deps.Messages)
	keyHandler := handler.NewAPIKeyHandler(deps.Store, deps.Auth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.ContentType)

		// Public configuration endpoint for external integrators.
		// CORS echoes the caller's origin and answers OPTIONS preflight.
		r.Group(func(r chi.Router) {
			r.Use(cors.Handler(cors.Options{
				AllowOriginFunc: func(r *http.Request, origin string) bool {
					return true
				},
				AllowedMethods:   []string{"GET", "OPTIONS"},
				AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
				AllowCredentials: false,
				MaxAge:           300,
			}))
			r.Use(middleware.RequireKey(deps.Auth, domain.PermissionRead))
			r.Get("/config", configHandler.GetConfig)
		})

		// Public region reads
		r.Get("/regions", regionHandler.List)
		r.Get("/regions/{id}", regionHandler.Get)

		// Client portal messaging
		r.Get("/messages", messageHandler.List)
		r.Group(func(r chi.Router) {
			r.Use(httprate.LimitByIP(deps.RateLimit.MessagesPerMinute, time.Minute))
			r.Post("/messages", messageHandler.Send)
		})

		// Staff surface (admin session required)
		r.Route("/admin", func(r chi.Router) {
			r.Use(adminGate)

			// API Keys
			r.Post("/keys", keyHandler.Create)
			r.Get("/keys", keyHandler.List)
			r.Get("/keys/{id}", keyHandler.Get)
			r.Put("/keys/{id}", keyHandler.Update)
			r.Delete("/keys/{id}", keyHandler.Delete)

			// Pricing regions
			r.Post("/regions", regionHandler.Create)
			r.Put("/regions/{id}", regionHandler.Update)
			r.Delete("/regions/{id}", regionHandler.Delete)
			r.Get("/regions/{id}/prices", regionHandler.ListPrices)
			r.Put("/regions/{id}/prices", regionHandler.SetPrice)
			r.Delete("/regions/{id}/prices/{productId}", regionHandler.DeletePrice)

			// Store settings
			r.Get("/settings", configHandler.GetSettings)
			r.Put("/settings", configHandler.UpdateSettings)

			// Messaging staff operations
			r.Patch("/messages/read", messageHandler.MarkRead)
			r.Get("/messages/unread", messageHandler.UnreadCount)
		})
	})

	return r
}
