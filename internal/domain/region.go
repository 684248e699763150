package domain

import "time"

// PricingRegion is a named grouping of countries sharing a currency and a
// set of per-region price overrides. At most one region is the default;
// the default is the fallback when no country-specific region matches.
type PricingRegion struct {
	ID        string    `json:"id" db:"id"`
	Code      string    `json:"code" db:"code"` // Stored upper-case, unique
	Name      string    `json:"name" db:"name"`
	Currency  string    `json:"currency" db:"currency"` // ISO 4217, upper-case
	Countries []string  `json:"countries"`              // ISO 3166-1 alpha-2, upper-case
	IsDefault bool      `json:"is_default" db:"is_default"`
	SortOrder int       `json:"sort_order" db:"sort_order"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CreateRegionRequest is the request body for creating a pricing region.
type CreateRegionRequest struct {
	Code      string   `json:"code"`
	Name      string   `json:"name"`
	Currency  string   `json:"currency"`
	Countries []string `json:"countries,omitempty"`
	IsDefault bool     `json:"is_default,omitempty"`
	SortOrder int      `json:"sort_order,omitempty"`
}

// UpdateRegionRequest is the request body for updating a pricing region.
// Nil fields are left unchanged; a non-nil empty Countries slice clears the set.
type UpdateRegionRequest struct {
	Code      *string   `json:"code,omitempty"`
	Name      *string   `json:"name,omitempty"`
	Currency  *string   `json:"currency,omitempty"`
	Countries *[]string `json:"countries,omitempty"`
	IsDefault *bool     `json:"is_default,omitempty"`
	SortOrder *int      `json:"sort_order,omitempty"`
}

// PriceOverride is a region-scoped price for a single product. Overrides are
// deleted with their region.
type PriceOverride struct {
	ID        string    `json:"id" db:"id"`
	RegionID  string    `json:"region_id" db:"region_id"`
	ProductID string    `json:"product_id" db:"product_id"`
	Amount    int64     `json:"amount" db:"amount"` // Minor units of the region currency
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// SetPriceOverrideRequest is the request body for upserting a price override.
type SetPriceOverrideRequest struct {
	ProductID string `json:"product_id"`
	Amount    int64  `json:"amount"`
}
