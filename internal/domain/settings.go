package domain

import "time"

// SettingsID is the fixed identity of the singleton store settings row.
const SettingsID = 1

// StoreSettings is the singleton storefront configuration record. It is
// lazily created with configured defaults on first read.
type StoreSettings struct {
	ID              int       `json:"-" db:"id"`
	StoreName       string    `json:"store_name" db:"store_name"`
	StoreURL        string    `json:"store_url" db:"store_url"`
	DefaultCurrency string    `json:"default_currency" db:"default_currency"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// UpdateSettingsRequest is the request body for updating store settings.
type UpdateSettingsRequest struct {
	StoreName       *string `json:"store_name,omitempty"`
	StoreURL        *string `json:"store_url,omitempty"`
	DefaultCurrency *string `json:"default_currency,omitempty"`
}

// RegionInfo is the sanitized region fragment of the public config payload.
type RegionInfo struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Currency string `json:"currency"`
}

// StripeConfig exposes only the publishable half of the Stripe configuration.
type StripeConfig struct {
	Enabled        bool   `json:"enabled"`
	PublishableKey string `json:"publishableKey,omitempty"`
}

// PayPalConfig exposes only the public client identifier.
type PayPalConfig struct {
	Enabled  bool   `json:"enabled"`
	ClientID string `json:"clientId,omitempty"`
}

// StoreConfig is the sanitized payload returned to external integrators.
// Server-side secret material never appears here, masked or otherwise.
type StoreConfig struct {
	StoreName string       `json:"storeName"`
	StoreURL  string       `json:"storeUrl"`
	Currency  string       `json:"currency"`
	Stripe    StripeConfig `json:"stripe"`
	PayPal    PayPalConfig `json:"paypal"`
}

// ConfigResponse is the body of GET /api/v1/config.
type ConfigResponse struct {
	Success bool        `json:"success"`
	Config  StoreConfig `json:"config"`
	Region  *RegionInfo `json:"region"` // nil when no region resolves (no default configured)
}
