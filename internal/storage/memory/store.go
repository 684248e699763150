package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/atelierhq/storefront/internal/domain"
	"github.com/atelierhq/storefront/internal/storage"
)

// Store is an in-memory implementation of the storage interface for testing.
type Store struct {
	mu sync.RWMutex

	apiKeys   map[string]*domain.APIKey
	regions   map[string]*domain.PricingRegion
	overrides map[string]*domain.PriceOverride // key: regionID:productID
	messages  []*domain.ProjectMessage
	settings  *domain.StoreSettings
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		apiKeys:   make(map[string]*domain.APIKey),
		regions:   make(map[string]*domain.PricingRegion),
		overrides: make(map[string]*domain.PriceOverride),
	}
}

func (s *Store) Close() error { return nil }

func (s *Store) BeginTx(ctx context.Context) (storage.Transaction, error) {
	return &Tx{store: s}, nil
}

// ============================================
// API Keys
// ============================================

func (s *Store) CreateAPIKey(ctx context.Context, key *domain.APIKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.apiKeys[key.ID]; exists {
		return domain.ErrAlreadyExists
	}
	for _, existing := range s.apiKeys {
		if existing.KeyHash == key.KeyHash {
			return domain.ErrAlreadyExists
		}
	}
	s.apiKeys[key.ID] = key
	return nil
}

func (s *Store) GetAPIKey(ctx context.Context, id string) (*domain.APIKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	key, exists := s.apiKeys[id]
	if !exists {
		return nil, domain.ErrNotFound
	}
	return key, nil
}

func (s *Store) GetAPIKeyByHash(ctx context.Context, keyHash string) (*domain.APIKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, key := range s.apiKeys {
		if key.KeyHash == keyHash {
			return key, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *Store) ListAPIKeys(ctx context.Context) ([]*domain.APIKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]*domain.APIKey, 0, len(s.apiKeys))
	for _, key := range s.apiKeys {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].CreatedAt.After(keys[j].CreatedAt)
	})
	return keys, nil
}

func (s *Store) UpdateAPIKey(ctx context.Context, key *domain.APIKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.apiKeys[key.ID]; !exists {
		return domain.ErrNotFound
	}
	s.apiKeys[key.ID] = key
	return nil
}

func (s *Store) DeleteAPIKey(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.apiKeys[id]; !exists {
		return domain.ErrNotFound
	}
	delete(s.apiKeys, id)
	return nil
}

func (s *Store) UpdateAPIKeyLastUsed(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key, exists := s.apiKeys[id]
	if !exists {
		return domain.ErrNotFound
	}
	now := time.Now()
	key.LastUsedAt = &now
	return nil
}

// ============================================
// Pricing Regions
// ============================================

func (s *Store) CreateRegion(ctx context.Context, region *domain.PricingRegion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.regions[region.ID]; exists {
		return domain.ErrAlreadyExists
	}
	for _, existing := range s.regions {
		if existing.Code == region.Code {
			return domain.ErrAlreadyExists
		}
	}
	s.regions[region.ID] = region
	return nil
}

func (s *Store) GetRegion(ctx context.Context, id string) (*domain.PricingRegion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	region, exists := s.regions[id]
	if !exists {
		return nil, domain.ErrNotFound
	}
	return region, nil
}

func (s *Store) GetRegionByCode(ctx context.Context, code string) (*domain.PricingRegion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, region := range s.regions {
		if region.Code == code {
			return region, nil
		}
	}
	return nil, domain.ErrNotFound
}

// sortedRegions returns regions in the store's natural order (sort_order, code).
func (s *Store) sortedRegions() []*domain.PricingRegion {
	regions := make([]*domain.PricingRegion, 0, len(s.regions))
	for _, region := range s.regions {
		regions = append(regions, region)
	}
	sort.Slice(regions, func(i, j int) bool {
		if regions[i].SortOrder != regions[j].SortOrder {
			return regions[i].SortOrder < regions[j].SortOrder
		}
		return regions[i].Code < regions[j].Code
	})
	return regions
}

func (s *Store) GetRegionByCountry(ctx context.Context, country string) (*domain.PricingRegion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, region := range s.sortedRegions() {
		for _, c := range region.Countries {
			if c == country {
				return region, nil
			}
		}
	}
	return nil, domain.ErrNotFound
}

func (s *Store) GetDefaultRegion(ctx context.Context) (*domain.PricingRegion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, region := range s.regions {
		if region.IsDefault {
			return region, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *Store) ListRegions(ctx context.Context) ([]*domain.PricingRegion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedRegions(), nil
}

func (s *Store) UpdateRegion(ctx context.Context, region *domain.PricingRegion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.regions[region.ID]; !exists {
		return domain.ErrNotFound
	}
	for _, existing := range s.regions {
		if existing.ID != region.ID && existing.Code == region.Code {
			return domain.ErrAlreadyExists
		}
	}
	region.UpdatedAt = time.Now()
	s.regions[region.ID] = region
	return nil
}

func (s *Store) ClearDefaultRegion(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, region := range s.regions {
		region.IsDefault = false
	}
	return nil
}

func (s *Store) DeleteRegion(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.regions[id]; !exists {
		return domain.ErrNotFound
	}
	delete(s.regions, id)
	return nil
}

// ============================================
// Price Overrides
// ============================================

func overrideKey(regionID, productID string) string {
	return regionID + ":" + productID
}

func (s *Store) SetPriceOverride(ctx context.Context, override *domain.PriceOverride) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := overrideKey(override.RegionID, override.ProductID)
	if existing, ok := s.overrides[key]; ok {
		existing.Amount = override.Amount
		existing.UpdatedAt = override.UpdatedAt
		return nil
	}
	s.overrides[key] = override
	return nil
}

func (s *Store) ListPriceOverrides(ctx context.Context, regionID string) ([]*domain.PriceOverride, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var overrides []*domain.PriceOverride
	for _, o := range s.overrides {
		if o.RegionID == regionID {
			overrides = append(overrides, o)
		}
	}
	sort.Slice(overrides, func(i, j int) bool {
		return overrides[i].ProductID < overrides[j].ProductID
	})
	return overrides, nil
}

func (s *Store) DeletePriceOverride(ctx context.Context, regionID, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := overrideKey(regionID, productID)
	if _, exists := s.overrides[key]; !exists {
		return domain.ErrNotFound
	}
	delete(s.overrides, key)
	return nil
}

func (s *Store) DeletePriceOverridesForRegion(ctx context.Context, regionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, o := range s.overrides {
		if o.RegionID == regionID {
			delete(s.overrides, key)
		}
	}
	return nil
}

// ============================================
// Project Messages
// ============================================

func (s *Store) CreateMessage(ctx context.Context, msg *domain.ProjectMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
	return nil
}

func (s *Store) ListMessages(ctx context.Context, intakeID string) ([]*domain.ProjectMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var msgs []*domain.ProjectMessage
	for _, m := range s.messages {
		if m.IntakeID == intakeID {
			msgs = append(msgs, m)
		}
	}
	sort.SliceStable(msgs, func(i, j int) bool {
		if !msgs[i].CreatedAt.Equal(msgs[j].CreatedAt) {
			return msgs[i].CreatedAt.Before(msgs[j].CreatedAt)
		}
		return msgs[i].ID < msgs[j].ID
	})
	return msgs, nil
}

func (s *Store) MarkMessagesRead(ctx context.Context, intakeID string, at time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var touched int64
	for _, m := range s.messages {
		if m.IntakeID == intakeID && m.SenderType == domain.SenderClient && m.ReadAt == nil {
			stamped := at
			m.ReadAt = &stamped
			touched++
		}
	}
	return touched, nil
}

func (s *Store) CountUnreadMessages(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, m := range s.messages {
		if m.SenderType == domain.SenderClient && m.ReadAt == nil {
			count++
		}
	}
	return count, nil
}

// ============================================
// Store Settings
// ============================================

func (s *Store) GetSettings(ctx context.Context) (*domain.StoreSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.settings == nil {
		return nil, domain.ErrNotFound
	}
	return s.settings, nil
}

func (s *Store) SaveSettings(ctx context.Context, settings *domain.StoreSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	settings.ID = domain.SettingsID
	settings.UpdatedAt = time.Now()
	s.settings = settings
	return nil
}

// ============================================
// Transactions
// ============================================

// Tx is a no-op transaction for the in-memory store.
type Tx struct {
	store *Store
}

func (t *Tx) Commit() error   { return nil }
func (t *Tx) Rollback() error { return nil }
func (t *Tx) Close() error    { return nil }
func (t *Tx) BeginTx(ctx context.Context) (storage.Transaction, error) {
	return nil, domain.ErrInvalidInput
}

// Forward all Tx methods to the underlying store
func (t *Tx) CreateAPIKey(ctx context.Context, key *domain.APIKey) error {
	return t.store.CreateAPIKey(ctx, key)
}
func (t *Tx) GetAPIKey(ctx context.Context, id string) (*domain.APIKey, error) {
	return t.store.GetAPIKey(ctx, id)
}
func (t *Tx) GetAPIKeyByHash(ctx context.Context, keyHash string) (*domain.APIKey, error) {
	return t.store.GetAPIKeyByHash(ctx, keyHash)
}
func (t *Tx) ListAPIKeys(ctx context.Context) ([]*domain.APIKey, error) {
	return t.store.ListAPIKeys(ctx)
}
func (t *Tx) UpdateAPIKey(ctx context.Context, key *domain.APIKey) error {
	return t.store.UpdateAPIKey(ctx, key)
}
func (t *Tx) DeleteAPIKey(ctx context.Context, id string) error {
	return t.store.DeleteAPIKey(ctx, id)
}
func (t *Tx) UpdateAPIKeyLastUsed(ctx context.Context, id string) error {
	return t.store.UpdateAPIKeyLastUsed(ctx, id)
}
func (t *Tx) CreateRegion(ctx context.Context, region *domain.PricingRegion) error {
	return t.store.CreateRegion(ctx, region)
}
func (t *Tx) GetRegion(ctx context.Context, id string) (*domain.PricingRegion, error) {
	return t.store.GetRegion(ctx, id)
}
func (t *Tx) GetRegionByCode(ctx context.Context, code string) (*domain.PricingRegion, error) {
	return t.store.GetRegionByCode(ctx, code)
}
func (t *Tx) GetRegionByCountry(ctx context.Context, country string) (*domain.PricingRegion, error) {
	return t.store.GetRegionByCountry(ctx, country)
}
func (t *Tx) GetDefaultRegion(ctx context.Context) (*domain.PricingRegion, error) {
	return t.store.GetDefaultRegion(ctx)
}
func (t *Tx) ListRegions(ctx context.Context) ([]*domain.PricingRegion, error) {
	return t.store.ListRegions(ctx)
}
func (t *Tx) UpdateRegion(ctx context.Context, region *domain.PricingRegion) error {
	return t.store.UpdateRegion(ctx, region)
}
func (t *Tx) ClearDefaultRegion(ctx context.Context) error {
	return t.store.ClearDefaultRegion(ctx)
}
func (t *Tx) DeleteRegion(ctx context.Context, id string) error {
	return t.store.DeleteRegion(ctx, id)
}
func (t *Tx) SetPriceOverride(ctx context.Context, override *domain.PriceOverride) error {
	return t.store.SetPriceOverride(ctx, override)
}
func (t *Tx) ListPriceOverrides(ctx context.Context, regionID string) ([]*domain.PriceOverride, error) {
	return t.store.ListPriceOverrides(ctx, regionID)
}
func (t *Tx) DeletePriceOverride(ctx context.Context, regionID, productID string) error {
	return t.store.DeletePriceOverride(ctx, regionID, productID)
}
func (t *Tx) DeletePriceOverridesForRegion(ctx context.Context, regionID string) error {
	return t.store.DeletePriceOverridesForRegion(ctx, regionID)
}
func (t *Tx) CreateMessage(ctx context.Context, msg *domain.ProjectMessage) error {
	return t.store.CreateMessage(ctx, msg)
}
func (t *Tx) ListMessages(ctx context.Context, intakeID string) ([]*domain.ProjectMessage, error) {
	return t.store.ListMessages(ctx, intakeID)
}
func (t *Tx) MarkMessagesRead(ctx context.Context, intakeID string, at time.Time) (int64, error) {
	return t.store.MarkMessagesRead(ctx, intakeID, at)
}
func (t *Tx) CountUnreadMessages(ctx context.Context) (int, error) {
	return t.store.CountUnreadMessages(ctx)
}
func (t *Tx) GetSettings(ctx context.Context) (*domain.StoreSettings, error) {
	return t.store.GetSettings(ctx)
}
func (t *Tx) SaveSettings(ctx context.Context, settings *domain.StoreSettings) error {
	return t.store.SaveSettings(ctx, settings)
}
