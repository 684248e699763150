package sql

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"
	"time"

	"github.com/atelierhq/storefront/internal/domain"
	"github.com/atelierhq/storefront/internal/storage"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// isUniqueViolation checks if an error is a UNIQUE constraint violation.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	// SQLite
	if strings.Contains(errStr, "UNIQUE constraint failed") {
		return true
	}
	// PostgreSQL
	if strings.Contains(errStr, "duplicate key value violates unique constraint") {
		return true
	}
	return false
}

// wrapUniqueError converts UNIQUE violations to domain.ErrAlreadyExists.
func wrapUniqueError(err error) error {
	if isUniqueViolation(err) {
		return domain.ErrAlreadyExists
	}
	return err
}

// Store implements the storage.Storage interface using SQL.
type Store struct {
	db     *sqlx.DB
	driver string
}

// New creates a new SQL store.
func New(driver, dsn string) (*Store, error) {
	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	// Run migrations
	goose.SetBaseFS(embedMigrations)
	if err := goose.SetDialect(driver); err != nil {
		return nil, fmt.Errorf("setting goose dialect: %w", err)
	}

	if err := goose.Up(db.DB, "migrations"); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return &Store{db: db, driver: driver}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// BeginTx starts a new transaction.
func (s *Store) BeginTx(ctx context.Context) (storage.Transaction, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &Tx{tx: tx, driver: s.driver}, nil
}

// Tx wraps a database transaction.
type Tx struct {
	tx     *sqlx.Tx
	driver string
}

// Commit commits the transaction.
func (t *Tx) Commit() error {
	return t.tx.Commit()
}

// Rollback rolls back the transaction.
func (t *Tx) Rollback() error {
	return t.tx.Rollback()
}

// Close is a no-op for transactions (they should be committed or rolled back).
func (t *Tx) Close() error {
	return nil
}

// BeginTx is not supported within a transaction.
func (t *Tx) BeginTx(ctx context.Context) (storage.Transaction, error) {
	return nil, fmt.Errorf("nested transactions not supported")
}

// helper to get the correct database interface
type dbInterface interface {
	sqlx.ExtContext
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// ============================================
// API Keys
// ============================================

const apiKeyColumns = `id, name, key_hash, key_prefix, permissions, is_active, expires_at, created_at, last_used_at`

func createAPIKey(ctx context.Context, db dbInterface, key *domain.APIKey) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO api_keys (`+apiKeyColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		key.ID, key.Name, key.KeyHash, key.KeyPrefix, key.Permissions,
		key.IsActive, key.ExpiresAt, key.CreatedAt, key.LastUsedAt)
	return wrapUniqueError(err)
}

func (s *Store) CreateAPIKey(ctx context.Context, key *domain.APIKey) error {
	return createAPIKey(ctx, s.db, key)
}

func (t *Tx) CreateAPIKey(ctx context.Context, key *domain.APIKey) error {
	return createAPIKey(ctx, t.tx, key)
}

func getAPIKey(ctx context.Context, db dbInterface, id string) (*domain.APIKey, error) {
	var key domain.APIKey
	err := db.GetContext(ctx, &key,
		`SELECT `+apiKeyColumns+` FROM api_keys WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	return &key, err
}

func (s *Store) GetAPIKey(ctx context.Context, id string) (*domain.APIKey, error) {
	return getAPIKey(ctx, s.db, id)
}

func (t *Tx) GetAPIKey(ctx context.Context, id string) (*domain.APIKey, error) {
	return getAPIKey(ctx, t.tx, id)
}

func getAPIKeyByHash(ctx context.Context, db dbInterface, keyHash string) (*domain.APIKey, error) {
	var key domain.APIKey
	err := db.GetContext(ctx, &key,
		`SELECT `+apiKeyColumns+` FROM api_keys WHERE key_hash = $1`, keyHash)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	return &key, err
}

func (s *Store) GetAPIKeyByHash(ctx context.Context, keyHash string) (*domain.APIKey, error) {
	return getAPIKeyByHash(ctx, s.db, keyHash)
}

func (t *Tx) GetAPIKeyByHash(ctx context.Context, keyHash string) (*domain.APIKey, error) {
	return getAPIKeyByHash(ctx, t.tx, keyHash)
}

func listAPIKeys(ctx context.Context, db dbInterface) ([]*domain.APIKey, error) {
	var keys []*domain.APIKey
	err := db.SelectContext(ctx, &keys,
		`SELECT `+apiKeyColumns+` FROM api_keys ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	return keys, nil
}

func (s *Store) ListAPIKeys(ctx context.Context) ([]*domain.APIKey, error) {
	return listAPIKeys(ctx, s.db)
}

func (t *Tx) ListAPIKeys(ctx context.Context) ([]*domain.APIKey, error) {
	return listAPIKeys(ctx, t.tx)
}

func updateAPIKey(ctx context.Context, db dbInterface, key *domain.APIKey) error {
	result, err := db.ExecContext(ctx,
		`UPDATE api_keys SET name = $1, permissions = $2, is_active = $3, expires_at = $4 WHERE id = $5`,
		key.Name, key.Permissions, key.IsActive, key.ExpiresAt, key.ID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Store) UpdateAPIKey(ctx context.Context, key *domain.APIKey) error {
	return updateAPIKey(ctx, s.db, key)
}

func (t *Tx) UpdateAPIKey(ctx context.Context, key *domain.APIKey) error {
	return updateAPIKey(ctx, t.tx, key)
}

func deleteAPIKey(ctx context.Context, db dbInterface, id string) error {
	result, err := db.ExecContext(ctx, `DELETE FROM api_keys WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteAPIKey(ctx context.Context, id string) error {
	return deleteAPIKey(ctx, s.db, id)
}

func (t *Tx) DeleteAPIKey(ctx context.Context, id string) error {
	return deleteAPIKey(ctx, t.tx, id)
}

func updateAPIKeyLastUsed(ctx context.Context, db dbInterface, id string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE api_keys SET last_used_at = $1 WHERE id = $2`, time.Now(), id)
	return err
}

func (s *Store) UpdateAPIKeyLastUsed(ctx context.Context, id string) error {
	return updateAPIKeyLastUsed(ctx, s.db, id)
}

func (t *Tx) UpdateAPIKeyLastUsed(ctx context.Context, id string) error {
	return updateAPIKeyLastUsed(ctx, t.tx, id)
}

// ============================================
// Pricing Regions
// ============================================

const regionColumns = `id, code, name, currency, is_default, sort_order, created_at, updated_at`

func createRegion(ctx context.Context, db dbInterface, region *domain.PricingRegion) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO pricing_regions (`+regionColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		region.ID, region.Code, region.Name, region.Currency,
		region.IsDefault, region.SortOrder, region.CreatedAt, region.UpdatedAt)
	if err != nil {
		return wrapUniqueError(err)
	}
	return insertRegionCountries(ctx, db, region.ID, region.Countries)
}

func (s *Store) CreateRegion(ctx context.Context, region *domain.PricingRegion) error {
	return createRegion(ctx, s.db, region)
}

func (t *Tx) CreateRegion(ctx context.Context, region *domain.PricingRegion) error {
	return createRegion(ctx, t.tx, region)
}

func insertRegionCountries(ctx context.Context, db dbInterface, regionID string, countries []string) error {
	for _, country := range countries {
		_, err := db.ExecContext(ctx,
			`INSERT INTO region_countries (region_id, country) VALUES ($1, $2)`, regionID, country)
		if err != nil {
			return wrapUniqueError(err)
		}
	}
	return nil
}

func getRegionCountries(ctx context.Context, db dbInterface, regionID string) ([]string, error) {
	var countries []string
	err := db.SelectContext(ctx, &countries,
		`SELECT country FROM region_countries WHERE region_id = $1 ORDER BY country`, regionID)
	return countries, err
}

func loadRegionCountries(ctx context.Context, db dbInterface, region *domain.PricingRegion) error {
	countries, err := getRegionCountries(ctx, db, region.ID)
	if err != nil {
		return err
	}
	region.Countries = countries
	return nil
}

func getRegion(ctx context.Context, db dbInterface, id string) (*domain.PricingRegion, error) {
	var region domain.PricingRegion
	err := db.GetContext(ctx, &region,
		`SELECT `+regionColumns+` FROM pricing_regions WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := loadRegionCountries(ctx, db, &region); err != nil {
		return nil, err
	}
	return &region, nil
}

func (s *Store) GetRegion(ctx context.Context, id string) (*domain.PricingRegion, error) {
	return getRegion(ctx, s.db, id)
}

func (t *Tx) GetRegion(ctx context.Context, id string) (*domain.PricingRegion, error) {
	return getRegion(ctx, t.tx, id)
}

func getRegionByCode(ctx context.Context, db dbInterface, code string) (*domain.PricingRegion, error) {
	var region domain.PricingRegion
	err := db.GetContext(ctx, &region,
		`SELECT `+regionColumns+` FROM pricing_regions WHERE code = $1`, code)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := loadRegionCountries(ctx, db, &region); err != nil {
		return nil, err
	}
	return &region, nil
}

func (s *Store) GetRegionByCode(ctx context.Context, code string) (*domain.PricingRegion, error) {
	return getRegionByCode(ctx, s.db, code)
}

func (t *Tx) GetRegionByCode(ctx context.Context, code string) (*domain.PricingRegion, error) {
	return getRegionByCode(ctx, t.tx, code)
}

func getRegionByCountry(ctx context.Context, db dbInterface, country string) (*domain.PricingRegion, error) {
	var region domain.PricingRegion
	err := db.GetContext(ctx, &region,
		`SELECT r.id, r.code, r.name, r.currency, r.is_default, r.sort_order, r.created_at, r.updated_at
		 FROM pricing_regions r
		 JOIN region_countries c ON c.region_id = r.id
		 WHERE c.country = $1
		 ORDER BY r.sort_order, r.code
		 LIMIT 1`, country)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := loadRegionCountries(ctx, db, &region); err != nil {
		return nil, err
	}
	return &region, nil
}

func (s *Store) GetRegionByCountry(ctx context.Context, country string) (*domain.PricingRegion, error) {
	return getRegionByCountry(ctx, s.db, country)
}

func (t *Tx) GetRegionByCountry(ctx context.Context, country string) (*domain.PricingRegion, error) {
	return getRegionByCountry(ctx, t.tx, country)
}

func getDefaultRegion(ctx context.Context, db dbInterface) (*domain.PricingRegion, error) {
	var region domain.PricingRegion
	err := db.GetContext(ctx, &region,
		`SELECT `+regionColumns+` FROM pricing_regions WHERE is_default = TRUE LIMIT 1`)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := loadRegionCountries(ctx, db, &region); err != nil {
		return nil, err
	}
	return &region, nil
}

func (s *Store) GetDefaultRegion(ctx context.Context) (*domain.PricingRegion, error) {
	return getDefaultRegion(ctx, s.db)
}

func (t *Tx) GetDefaultRegion(ctx context.Context) (*domain.PricingRegion, error) {
	return getDefaultRegion(ctx, t.tx)
}

func listRegions(ctx context.Context, db dbInterface) ([]*domain.PricingRegion, error) {
	var regions []*domain.PricingRegion
	err := db.SelectContext(ctx, &regions,
		`SELECT `+regionColumns+` FROM pricing_regions ORDER BY sort_order, code`)
	if err != nil {
		return nil, err
	}
	for _, region := range regions {
		if err := loadRegionCountries(ctx, db, region); err != nil {
			return nil, err
		}
	}
	return regions, nil
}

func (s *Store) ListRegions(ctx context.Context) ([]*domain.PricingRegion, error) {
	return listRegions(ctx, s.db)
}

func (t *Tx) ListRegions(ctx context.Context) ([]*domain.PricingRegion, error) {
	return listRegions(ctx, t.tx)
}

func updateRegion(ctx context.Context, db dbInterface, region *domain.PricingRegion) error {
	region.UpdatedAt = time.Now()
	result, err := db.ExecContext(ctx,
		`UPDATE pricing_regions SET code = $1, name = $2, currency = $3, is_default = $4,
		 sort_order = $5, updated_at = $6 WHERE id = $7`,
		region.Code, region.Name, region.Currency, region.IsDefault,
		region.SortOrder, region.UpdatedAt, region.ID)
	if err != nil {
		return wrapUniqueError(err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	if _, err := db.ExecContext(ctx,
		`DELETE FROM region_countries WHERE region_id = $1`, region.ID); err != nil {
		return err
	}
	return insertRegionCountries(ctx, db, region.ID, region.Countries)
}

func (s *Store) UpdateRegion(ctx context.Context, region *domain.PricingRegion) error {
	return updateRegion(ctx, s.db, region)
}

func (t *Tx) UpdateRegion(ctx context.Context, region *domain.PricingRegion) error {
	return updateRegion(ctx, t.tx, region)
}

func clearDefaultRegion(ctx context.Context, db dbInterface) error {
	_, err := db.ExecContext(ctx,
		`UPDATE pricing_regions SET is_default = FALSE WHERE is_default = TRUE`)
	return err
}

func (s *Store) ClearDefaultRegion(ctx context.Context) error {
	return clearDefaultRegion(ctx, s.db)
}

func (t *Tx) ClearDefaultRegion(ctx context.Context) error {
	return clearDefaultRegion(ctx, t.tx)
}

func deleteRegion(ctx context.Context, db dbInterface, id string) error {
	// Child rows first; SQLite does not always have foreign keys enabled.
	if _, err := db.ExecContext(ctx,
		`DELETE FROM region_countries WHERE region_id = $1`, id); err != nil {
		return err
	}
	result, err := db.ExecContext(ctx, `DELETE FROM pricing_regions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteRegion(ctx context.Context, id string) error {
	return deleteRegion(ctx, s.db, id)
}

func (t *Tx) DeleteRegion(ctx context.Context, id string) error {
	return deleteRegion(ctx, t.tx, id)
}

// ============================================
// Price Overrides
// ============================================

const overrideColumns = `id, region_id, product_id, amount, created_at, updated_at`

func setPriceOverride(ctx context.Context, db dbInterface, override *domain.PriceOverride) error {
	result, err := db.ExecContext(ctx,
		`UPDATE price_overrides SET amount = $1, updated_at = $2 WHERE region_id = $3 AND product_id = $4`,
		override.Amount, override.UpdatedAt, override.RegionID, override.ProductID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows > 0 {
		return nil
	}
	_, err = db.ExecContext(ctx,
		`INSERT INTO price_overrides (`+overrideColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		override.ID, override.RegionID, override.ProductID, override.Amount,
		override.CreatedAt, override.UpdatedAt)
	return wrapUniqueError(err)
}

func (s *Store) SetPriceOverride(ctx context.Context, override *domain.PriceOverride) error {
	return setPriceOverride(ctx, s.db, override)
}

func (t *Tx) SetPriceOverride(ctx context.Context, override *domain.PriceOverride) error {
	return setPriceOverride(ctx, t.tx, override)
}

func listPriceOverrides(ctx context.Context, db dbInterface, regionID string) ([]*domain.PriceOverride, error) {
	var overrides []*domain.PriceOverride
	err := db.SelectContext(ctx, &overrides,
		`SELECT `+overrideColumns+` FROM price_overrides WHERE region_id = $1 ORDER BY product_id`, regionID)
	if err != nil {
		return nil, err
	}
	return overrides, nil
}

func (s *Store) ListPriceOverrides(ctx context.Context, regionID string) ([]*domain.PriceOverride, error) {
	return listPriceOverrides(ctx, s.db, regionID)
}

func (t *Tx) ListPriceOverrides(ctx context.Context, regionID string) ([]*domain.PriceOverride, error) {
	return listPriceOverrides(ctx, t.tx, regionID)
}

func deletePriceOverride(ctx context.Context, db dbInterface, regionID, productID string) error {
	result, err := db.ExecContext(ctx,
		`DELETE FROM price_overrides WHERE region_id = $1 AND product_id = $2`, regionID, productID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Store) DeletePriceOverride(ctx context.Context, regionID, productID string) error {
	return deletePriceOverride(ctx, s.db, regionID, productID)
}

func (t *Tx) DeletePriceOverride(ctx context.Context, regionID, productID string) error {
	return deletePriceOverride(ctx, t.tx, regionID, productID)
}

func deletePriceOverridesForRegion(ctx context.Context, db dbInterface, regionID string) error {
	_, err := db.ExecContext(ctx,
		`DELETE FROM price_overrides WHERE region_id = $1`, regionID)
	return err
}

func (s *Store) DeletePriceOverridesForRegion(ctx context.Context, regionID string) error {
	return deletePriceOverridesForRegion(ctx, s.db, regionID)
}

func (t *Tx) DeletePriceOverridesForRegion(ctx context.Context, regionID string) error {
	return deletePriceOverridesForRegion(ctx, t.tx, regionID)
}

// ============================================
// Project Messages
// ============================================

const messageColumns = `id, intake_id, content, sender_type, sender_name, sender_email, created_at, read_at`

func createMessage(ctx context.Context, db dbInterface, msg *domain.ProjectMessage) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO project_messages (`+messageColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		msg.ID, msg.IntakeID, msg.Content, msg.SenderType,
		msg.SenderName, msg.SenderEmail, msg.CreatedAt, msg.ReadAt)
	return err
}

func (s *Store) CreateMessage(ctx context.Context, msg *domain.ProjectMessage) error {
	return createMessage(ctx, s.db, msg)
}

func (t *Tx) CreateMessage(ctx context.Context, msg *domain.ProjectMessage) error {
	return createMessage(ctx, t.tx, msg)
}

func listMessages(ctx context.Context, db dbInterface, intakeID string) ([]*domain.ProjectMessage, error) {
	var msgs []*domain.ProjectMessage
	err := db.SelectContext(ctx, &msgs,
		`SELECT `+messageColumns+` FROM project_messages
		 WHERE intake_id = $1 ORDER BY created_at, id`, intakeID)
	if err != nil {
		return nil, err
	}
	return msgs, nil
}

func (s *Store) ListMessages(ctx context.Context, intakeID string) ([]*domain.ProjectMessage, error) {
	return listMessages(ctx, s.db, intakeID)
}

func (t *Tx) ListMessages(ctx context.Context, intakeID string) ([]*domain.ProjectMessage, error) {
	return listMessages(ctx, t.tx, intakeID)
}

func markMessagesRead(ctx context.Context, db dbInterface, intakeID string, at time.Time) (int64, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE project_messages SET read_at = $1
		 WHERE intake_id = $2 AND sender_type = $3 AND read_at IS NULL`,
		at, intakeID, domain.SenderClient)
	if err != nil {
		return 0, err
	}
	rows, _ := result.RowsAffected()
	return rows, nil
}

func (s *Store) MarkMessagesRead(ctx context.Context, intakeID string, at time.Time) (int64, error) {
	return markMessagesRead(ctx, s.db, intakeID, at)
}

func (t *Tx) MarkMessagesRead(ctx context.Context, intakeID string, at time.Time) (int64, error) {
	return markMessagesRead(ctx, t.tx, intakeID, at)
}

func countUnreadMessages(ctx context.Context, db dbInterface) (int, error) {
	var count int
	err := db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM project_messages WHERE sender_type = $1 AND read_at IS NULL`,
		domain.SenderClient)
	return count, err
}

func (s *Store) CountUnreadMessages(ctx context.Context) (int, error) {
	return countUnreadMessages(ctx, s.db)
}

func (t *Tx) CountUnreadMessages(ctx context.Context) (int, error) {
	return countUnreadMessages(ctx, t.tx)
}

// ============================================
// Store Settings
// ============================================

func getSettings(ctx context.Context, db dbInterface) (*domain.StoreSettings, error) {
	var settings domain.StoreSettings
	err := db.GetContext(ctx, &settings,
		`SELECT id, store_name, store_url, default_currency, updated_at
		 FROM store_settings WHERE id = $1`, domain.SettingsID)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	return &settings, err
}

func (s *Store) GetSettings(ctx context.Context) (*domain.StoreSettings, error) {
	return getSettings(ctx, s.db)
}

func (t *Tx) GetSettings(ctx context.Context) (*domain.StoreSettings, error) {
	return getSettings(ctx, t.tx)
}

func saveSettings(ctx context.Context, db dbInterface, settings *domain.StoreSettings) error {
	settings.ID = domain.SettingsID
	settings.UpdatedAt = time.Now()
	result, err := db.ExecContext(ctx,
		`UPDATE store_settings SET store_name = $1, store_url = $2, default_currency = $3, updated_at = $4
		 WHERE id = $5`,
		settings.StoreName, settings.StoreURL, settings.DefaultCurrency, settings.UpdatedAt, settings.ID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows > 0 {
		return nil
	}
	_, err = db.ExecContext(ctx,
		`INSERT INTO store_settings (id, store_name, store_url, default_currency, updated_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		settings.ID, settings.StoreName, settings.StoreURL, settings.DefaultCurrency, settings.UpdatedAt)
	return wrapUniqueError(err)
}

func (s *Store) SaveSettings(ctx context.Context, settings *domain.StoreSettings) error {
	return saveSettings(ctx, s.db, settings)
}

func (t *Tx) SaveSettings(ctx context.Context, settings *domain.StoreSettings) error {
	return saveSettings(ctx, t.tx, settings)
}
