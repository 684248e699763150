package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/atelierhq/storefront/internal/domain"
	"github.com/atelierhq/storefront/internal/storage"
	"github.com/google/uuid"
)

const (
	// rawKeyTag is the recognizable prefix on every issued secret.
	rawKeyTag = "sk_"
	// displayPrefixLen is how much of the raw secret is kept as the
	// non-secret display fragment ("sk_" + first 9 hex chars).
	displayPrefixLen = 12
)

// AuthService issues and validates API keys for third-party integrations.
type AuthService struct {
	store  storage.Storage
	logger *slog.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(store storage.Storage, logger *slog.Logger) *AuthService {
	return &AuthService{store: store, logger: logger}
}

// GenerateKey creates a new API key. The raw secret is present only in the
// returned response; the store keeps its SHA-256 digest.
func (s *AuthService) GenerateKey(ctx context.Context, req *domain.CreateAPIKeyRequest) (*domain.CreateAPIKeyResponse, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}

	permissions, err := parsePermissions(req.Permissions)
	if err != nil {
		return nil, err
	}
	if len(permissions) == 0 {
		permissions = domain.PermissionSet{domain.PermissionRead}
	}

	rawKey, hash, prefix, err := generateRawKey()
	if err != nil {
		return nil, fmt.Errorf("generating API key: %w", err)
	}

	key := &domain.APIKey{
		ID:          uuid.New().String(),
		Name:        req.Name,
		KeyHash:     hash,
		KeyPrefix:   prefix,
		Permissions: permissions,
		IsActive:    true,
		ExpiresAt:   req.ExpiresAt,
		CreatedAt:   time.Now(),
	}

	if err := s.store.CreateAPIKey(ctx, key); err != nil {
		return nil, err
	}

	return &domain.CreateAPIKeyResponse{
		ID:          key.ID,
		Name:        key.Name,
		Key:         rawKey, // Only returned on creation
		KeyPrefix:   key.KeyPrefix,
		Permissions: key.Permissions,
		CreatedAt:   key.CreatedAt,
	}, nil
}

// ExtractBearer pulls the raw key out of an Authorization header value.
func ExtractBearer(header string) (string, error) {
	if header == "" {
		return "", domain.ErrMissingAuthHeader
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || scheme != "Bearer" || strings.TrimSpace(token) == "" {
		return "", domain.ErrMalformedAuthHeader
	}
	return strings.TrimSpace(token), nil
}

// Validate checks a raw key against stored digests and returns the key's
// identity. The last-used stamp is fire-and-forget: its failure is logged
// and never surfaced to the caller.
func (s *AuthService) Validate(ctx context.Context, rawKey string) (*domain.KeyIdentity, error) {
	key, err := s.store.GetAPIKeyByHash(ctx, hashKey(rawKey))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidAPIKey
		}
		return nil, err
	}

	if !key.IsActive {
		return nil, domain.ErrKeyDeactivated
	}

	if key.ExpiresAt != nil && key.ExpiresAt.Before(time.Now()) {
		return nil, domain.ErrKeyExpired
	}

	// Update last used timestamp (fire and forget)
	go func(id string) {
		if err := s.store.UpdateAPIKeyLastUsed(context.Background(), id); err != nil {
			s.logger.Warn("failed to stamp API key last_used_at", "key_id", id, "error", err)
		}
	}(key.ID)

	return &domain.KeyIdentity{
		ID:          key.ID,
		Name:        key.Name,
		Permissions: key.Permissions,
	}, nil
}

// Authorize validates the Authorization header and checks the required
// permission. Auth failures and permission failures come back as distinct
// sentinel errors so the transport layer can map them to 401 vs 403.
func (s *AuthService) Authorize(ctx context.Context, authHeader string, required domain.Permission) (*domain.KeyIdentity, error) {
	rawKey, err := ExtractBearer(authHeader)
	if err != nil {
		return nil, err
	}

	identity, err := s.Validate(ctx, rawKey)
	if err != nil {
		return nil, err
	}

	if !identity.Permissions.Has(required) {
		return nil, domain.ErrPermissionDenied
	}

	return identity, nil
}

// UpdateKey applies a partial update to an API key and returns the result.
func (s *AuthService) UpdateKey(ctx context.Context, id string, req *domain.UpdateAPIKeyRequest) (*domain.APIKey, error) {
	key, err := s.store.GetAPIKey(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", domain.ErrInvalidInput)
		}
		key.Name = *req.Name
	}
	if req.Permissions != nil {
		permissions, err := parsePermissions(req.Permissions)
		if err != nil {
			return nil, err
		}
		key.Permissions = permissions
	}
	if req.IsActive != nil {
		key.IsActive = *req.IsActive
	}
	if req.ExpiresAt != nil {
		key.ExpiresAt = req.ExpiresAt
	}

	if err := s.store.UpdateAPIKey(ctx, key); err != nil {
		return nil, err
	}
	return key, nil
}

func parsePermissions(raw []string) (domain.PermissionSet, error) {
	permissions := make(domain.PermissionSet, 0, len(raw))
	seen := make(map[domain.Permission]bool, len(raw))
	for _, r := range raw {
		p, err := domain.ParsePermission(r)
		if err != nil {
			return nil, err
		}
		if !seen[p] {
			seen[p] = true
			permissions = append(permissions, p)
		}
	}
	return permissions, nil
}

// generateRawKey generates a new random API key.
func generateRawKey() (key string, hash string, prefix string, err error) {
	// 32 random bytes of entropy behind the recognizable tag
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", "", "", err
	}

	key = rawKeyTag + hex.EncodeToString(bytes)
	hash = hashKey(key)
	prefix = key[:displayPrefixLen]

	return key, hash, prefix, nil
}

// hashKey creates a SHA-256 hash of the raw key.
// SHA-256 is enough for lookups since keys are already high-entropy random strings.
func hashKey(key string) string {
	h := sha256.Sum256([]byte(key))
	return hex.EncodeToString(h[:])
}
