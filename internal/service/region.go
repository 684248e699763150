package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/atelierhq/storefront/internal/domain"
	"github.com/atelierhq/storefront/internal/storage"
	"github.com/google/uuid"
)

// RegionService resolves country codes to pricing regions and owns the
// region mutation invariants (unique code, single default, protected default).
type RegionService struct {
	store storage.Storage
}

// NewRegionService creates a new RegionService.
func NewRegionService(store storage.Storage) *RegionService {
	return &RegionService{store: store}
}

// Resolve maps an optional country code to a pricing region. The fallback
// chain is exact country match, then the default region. A (nil, nil) result
// means no default region is configured; the caller decides the currency
// fallback.
func (s *RegionService) Resolve(ctx context.Context, countryCode string) (*domain.PricingRegion, error) {
	countryCode = strings.ToUpper(strings.TrimSpace(countryCode))

	if countryCode != "" {
		region, err := s.store.GetRegionByCountry(ctx, countryCode)
		if err == nil {
			return region, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
	}

	region, err := s.store.GetDefaultRegion(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		// Configuration gap, not a request failure.
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return region, nil
}

// Create creates a pricing region. Setting is_default clears any previous
// default inside the same transaction.
func (s *RegionService) Create(ctx context.Context, req *domain.CreateRegionRequest) (*domain.PricingRegion, error) {
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if code == "" {
		return nil, fmt.Errorf("%w: code is required", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	if currency == "" {
		return nil, fmt.Errorf("%w: currency is required", domain.ErrInvalidInput)
	}

	now := time.Now()
	region := &domain.PricingRegion{
		ID:        uuid.New().String(),
		Code:      code,
		Name:      req.Name,
		Currency:  currency,
		Countries: normalizeCountries(req.Countries),
		IsDefault: req.IsDefault,
		SortOrder: req.SortOrder,
		CreatedAt: now,
		UpdatedAt: now,
	}

	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := tx.GetRegionByCode(ctx, code); err == nil {
		return nil, fmt.Errorf("%w: region code %s already in use", domain.ErrConflict, code)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	if region.IsDefault {
		if err := tx.ClearDefaultRegion(ctx); err != nil {
			return nil, err
		}
	}
	if err := tx.CreateRegion(ctx, region); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, fmt.Errorf("%w: region code %s already in use", domain.ErrConflict, code)
		}
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return region, nil
}

// Update applies a partial update. Flipping is_default to true clears the
// previous holder in the same transaction so no reader observes two defaults.
func (s *RegionService) Update(ctx context.Context, id string, req *domain.UpdateRegionRequest) (*domain.PricingRegion, error) {
	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	region, err := tx.GetRegion(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Code != nil {
		code := strings.ToUpper(strings.TrimSpace(*req.Code))
		if code == "" {
			return nil, fmt.Errorf("%w: code cannot be empty", domain.ErrInvalidInput)
		}
		if code != region.Code {
			if existing, err := tx.GetRegionByCode(ctx, code); err == nil && existing.ID != id {
				return nil, fmt.Errorf("%w: region code %s already in use", domain.ErrConflict, code)
			} else if err != nil && !errors.Is(err, domain.ErrNotFound) {
				return nil, err
			}
			region.Code = code
		}
	}
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", domain.ErrInvalidInput)
		}
		region.Name = *req.Name
	}
	if req.Currency != nil {
		currency := strings.ToUpper(strings.TrimSpace(*req.Currency))
		if currency == "" {
			return nil, fmt.Errorf("%w: currency cannot be empty", domain.ErrInvalidInput)
		}
		region.Currency = currency
	}
	if req.Countries != nil {
		region.Countries = normalizeCountries(*req.Countries)
	}
	if req.SortOrder != nil {
		region.SortOrder = *req.SortOrder
	}
	if req.IsDefault != nil && *req.IsDefault != region.IsDefault {
		if *req.IsDefault {
			if err := tx.ClearDefaultRegion(ctx); err != nil {
				return nil, err
			}
		}
		region.IsDefault = *req.IsDefault
	}

	if err := tx.UpdateRegion(ctx, region); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, fmt.Errorf("%w: region code %s already in use", domain.ErrConflict, region.Code)
		}
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return region, nil
}

// Delete removes a region and its price overrides. The current default
// region cannot be deleted.
func (s *RegionService) Delete(ctx context.Context, id string) error {
	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	region, err := tx.GetRegion(ctx, id)
	if err != nil {
		return err
	}
	if region.IsDefault {
		return domain.ErrDefaultRegionProtected
	}

	if err := tx.DeletePriceOverridesForRegion(ctx, id); err != nil {
		return err
	}
	if err := tx.DeleteRegion(ctx, id); err != nil {
		return err
	}

	return tx.Commit()
}

// Get returns a region by id.
func (s *RegionService) Get(ctx context.Context, id string) (*domain.PricingRegion, error) {
	return s.store.GetRegion(ctx, id)
}

// List returns all regions in natural order.
func (s *RegionService) List(ctx context.Context) ([]*domain.PricingRegion, error) {
	return s.store.ListRegions(ctx)
}

// SetPriceOverride upserts a region-scoped product price.
func (s *RegionService) SetPriceOverride(ctx context.Context, regionID string, req *domain.SetPriceOverrideRequest) (*domain.PriceOverride, error) {
	if strings.TrimSpace(req.ProductID) == "" {
		return nil, fmt.Errorf("%w: product_id is required", domain.ErrInvalidInput)
	}
	if req.Amount < 0 {
		return nil, fmt.Errorf("%w: amount cannot be negative", domain.ErrInvalidInput)
	}
	if _, err := s.store.GetRegion(ctx, regionID); err != nil {
		return nil, err
	}

	now := time.Now()
	override := &domain.PriceOverride{
		ID:        uuid.New().String(),
		RegionID:  regionID,
		ProductID: req.ProductID,
		Amount:    req.Amount,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.SetPriceOverride(ctx, override); err != nil {
		return nil, err
	}
	return override, nil
}

// ListPriceOverrides returns the overrides scoped to one region.
func (s *RegionService) ListPriceOverrides(ctx context.Context, regionID string) ([]*domain.PriceOverride, error) {
	if _, err := s.store.GetRegion(ctx, regionID); err != nil {
		return nil, err
	}
	return s.store.ListPriceOverrides(ctx, regionID)
}

// DeletePriceOverride removes one override.
func (s *RegionService) DeletePriceOverride(ctx context.Context, regionID, productID string) error {
	return s.store.DeletePriceOverride(ctx, regionID, productID)
}

// normalizeCountries upper-cases, trims, dedupes, and sorts country codes.
func normalizeCountries(raw []string) []string {
	seen := make(map[string]bool, len(raw))
	out := make([]string, 0, len(raw))
	for _, c := range raw {
		c = strings.ToUpper(strings.TrimSpace(c))
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
