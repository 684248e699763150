package storage

import (
	"context"
	"time"

	"github.com/atelierhq/storefront/internal/domain"
)

// Storage defines the interface for the storage layer.
// Implementations must be safe for concurrent use.
type Storage interface {
	// Close closes the storage connection.
	Close() error

	// API Keys
	CreateAPIKey(ctx context.Context, key *domain.APIKey) error
	GetAPIKey(ctx context.Context, id string) (*domain.APIKey, error)
	GetAPIKeyByHash(ctx context.Context, keyHash string) (*domain.APIKey, error)
	ListAPIKeys(ctx context.Context) ([]*domain.APIKey, error)
	UpdateAPIKey(ctx context.Context, key *domain.APIKey) error
	DeleteAPIKey(ctx context.Context, id string) error
	UpdateAPIKeyLastUsed(ctx context.Context, id string) error

	// Pricing Regions
	CreateRegion(ctx context.Context, region *domain.PricingRegion) error
	GetRegion(ctx context.Context, id string) (*domain.PricingRegion, error)
	GetRegionByCode(ctx context.Context, code string) (*domain.PricingRegion, error)
	// GetRegionByCountry returns the first region whose country set contains
	// the given upper-cased code, in (sort_order, code) order.
	GetRegionByCountry(ctx context.Context, country string) (*domain.PricingRegion, error)
	GetDefaultRegion(ctx context.Context) (*domain.PricingRegion, error)
	ListRegions(ctx context.Context) ([]*domain.PricingRegion, error)
	UpdateRegion(ctx context.Context, region *domain.PricingRegion) error
	// ClearDefaultRegion unsets is_default on every region.
	ClearDefaultRegion(ctx context.Context) error
	DeleteRegion(ctx context.Context, id string) error

	// Price Overrides
	SetPriceOverride(ctx context.Context, override *domain.PriceOverride) error
	ListPriceOverrides(ctx context.Context, regionID string) ([]*domain.PriceOverride, error)
	DeletePriceOverride(ctx context.Context, regionID, productID string) error
	DeletePriceOverridesForRegion(ctx context.Context, regionID string) error

	// Project Messages
	CreateMessage(ctx context.Context, msg *domain.ProjectMessage) error
	ListMessages(ctx context.Context, intakeID string) ([]*domain.ProjectMessage, error)
	// MarkMessagesRead stamps read_at on unread CLIENT messages of one intake
	// and returns the number of rows touched.
	MarkMessagesRead(ctx context.Context, intakeID string, at time.Time) (int64, error)
	// CountUnreadMessages counts unread CLIENT messages across all intakes.
	CountUnreadMessages(ctx context.Context) (int, error)

	// Store Settings
	GetSettings(ctx context.Context) (*domain.StoreSettings, error)
	SaveSettings(ctx context.Context, settings *domain.StoreSettings) error

	// Transaction support
	BeginTx(ctx context.Context) (Transaction, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Storage
	Commit() error
	Rollback() error
}
