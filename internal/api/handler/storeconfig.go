package handler

import (
	"net/http"

	"github.com/atelierhq/storefront/internal/config"
	"github.com/atelierhq/storefront/internal/domain"
	"github.com/atelierhq/storefront/internal/service"
)

// StoreConfigHandler composes the authenticator, the region resolver, and
// the settings record into the public configuration endpoint, and serves
// the admin settings endpoints.
type StoreConfigHandler struct {
	settings *service.SettingsService
	regions  *service.RegionService
	payments config.PaymentConfig
}

// NewStoreConfigHandler creates a new StoreConfigHandler.
func NewStoreConfigHandler(settings *service.SettingsService, regions *service.RegionService, payments config.PaymentConfig) *StoreConfigHandler {
	return &StoreConfigHandler{settings: settings, regions: regions, payments: payments}
}

// GetConfig answers "what configuration and pricing applies to this request".
// The key middleware has already enforced the read permission. Only
// publishable payment identifiers leave the process; secret material is
// reduced to enablement booleans.
func (h *StoreConfigHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	settings, err := h.settings.Get(ctx)
	if err != nil {
		handleError(w, err)
		return
	}

	region, err := h.regions.Resolve(ctx, r.URL.Query().Get("country"))
	if err != nil {
		handleError(w, err)
		return
	}

	// Region currency wins over the store default.
	currency := settings.DefaultCurrency
	var regionInfo *domain.RegionInfo
	if region != nil {
		currency = region.Currency
		regionInfo = &domain.RegionInfo{
			Code:     region.Code,
			Name:     region.Name,
			Currency: region.Currency,
		}
	}

	resp := &domain.ConfigResponse{
		Success: true,
		Config: domain.StoreConfig{
			StoreName: settings.StoreName,
			StoreURL:  settings.StoreURL,
			Currency:  currency,
			Stripe: domain.StripeConfig{
				Enabled:        h.payments.StripeEnabled(),
				PublishableKey: h.payments.StripePublishableKey,
			},
			PayPal: domain.PayPalConfig{
				Enabled:  h.payments.PayPalEnabled(),
				ClientID: h.payments.PayPalClientID,
			},
		},
		Region: regionInfo,
	}

	respondJSON(w, http.StatusOK, resp)
}

// GetSettings returns the store settings record, creating it on first read.
func (h *StoreConfigHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.Get(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, settings)
}

// UpdateSettings applies a partial update to the store settings record.
func (h *StoreConfigHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateSettingsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, domain.ErrCodeValidationError, "invalid request body")
		return
	}

	settings, err := h.settings.Update(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, settings)
}
