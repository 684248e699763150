package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/atelierhq/storefront/internal/config"
	"github.com/atelierhq/storefront/internal/domain"
	"github.com/atelierhq/storefront/internal/storage"
)

// SettingsService owns the singleton store settings record.
type SettingsService struct {
	store    storage.Storage
	defaults config.StoreConfig
}

// NewSettingsService creates a new SettingsService.
func NewSettingsService(store storage.Storage, defaults config.StoreConfig) *SettingsService {
	return &SettingsService{store: store, defaults: defaults}
}

// Get returns the settings record, lazily creating it from configured
// defaults on first access.
func (s *SettingsService) Get(ctx context.Context) (*domain.StoreSettings, error) {
	settings, err := s.store.GetSettings(ctx)
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	settings = &domain.StoreSettings{
		StoreName:       s.defaults.Name,
		StoreURL:        s.defaults.URL,
		DefaultCurrency: strings.ToUpper(s.defaults.DefaultCurrency),
	}
	if err := s.store.SaveSettings(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// Update applies a partial update to the settings record.
func (s *SettingsService) Update(ctx context.Context, req *domain.UpdateSettingsRequest) (*domain.StoreSettings, error) {
	settings, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	if req.StoreName != nil {
		if strings.TrimSpace(*req.StoreName) == "" {
			return nil, fmt.Errorf("%w: store_name cannot be empty", domain.ErrInvalidInput)
		}
		settings.StoreName = *req.StoreName
	}
	if req.StoreURL != nil {
		settings.StoreURL = *req.StoreURL
	}
	if req.DefaultCurrency != nil {
		currency := strings.ToUpper(strings.TrimSpace(*req.DefaultCurrency))
		if currency == "" {
			return nil, fmt.Errorf("%w: default_currency cannot be empty", domain.ErrInvalidInput)
		}
		settings.DefaultCurrency = currency
	}

	if err := s.store.SaveSettings(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}
