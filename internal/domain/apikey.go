package domain

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// Permission is a capability tag attached to an API key.
type Permission string

const (
	PermissionRead     Permission = "read"
	PermissionWrite    Permission = "write"
	PermissionCheckout Permission = "checkout"
	PermissionWebhooks Permission = "webhooks"
	// PermissionAdmin subsumes every other permission.
	PermissionAdmin Permission = "admin"
)

// ParsePermission validates a permission tag.
func ParsePermission(s string) (Permission, error) {
	switch p := Permission(strings.ToLower(strings.TrimSpace(s))); p {
	case PermissionRead, PermissionWrite, PermissionCheckout, PermissionWebhooks, PermissionAdmin:
		return p, nil
	default:
		return "", fmt.Errorf("%w: unknown permission %q", ErrInvalidInput, s)
	}
}

// PermissionSet is the set of permissions granted to a key. Stored as a
// comma-separated column.
type PermissionSet []Permission

// Has reports whether the set grants the required permission. The admin
// permission subsumes all granular permissions.
func (ps PermissionSet) Has(required Permission) bool {
	for _, p := range ps {
		if p == required || p == PermissionAdmin {
			return true
		}
	}
	return false
}

// Value implements driver.Valuer.
func (ps PermissionSet) Value() (driver.Value, error) {
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = string(p)
	}
	return strings.Join(parts, ","), nil
}

// Scan implements sql.Scanner.
func (ps *PermissionSet) Scan(src any) error {
	var raw string
	switch v := src.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	case nil:
		*ps = nil
		return nil
	default:
		return fmt.Errorf("cannot scan %T into PermissionSet", src)
	}
	if raw == "" {
		*ps = nil
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make(PermissionSet, 0, len(parts))
	for _, part := range parts {
		p, err := ParsePermission(part)
		if err != nil {
			return err
		}
		out = append(out, p)
	}
	*ps = out
	return nil
}

// APIKey represents an API key for third-party integrations.
// The raw key is only returned once on creation; only its SHA-256 hash
// and a short display prefix are persisted.
type APIKey struct {
	ID          string        `json:"id" db:"id"`
	Name        string        `json:"name" db:"name"`
	KeyHash     string        `json:"-" db:"key_hash"` // Never expose hash
	KeyPrefix   string        `json:"key_prefix" db:"key_prefix"`
	Permissions PermissionSet `json:"permissions" db:"permissions"`
	IsActive    bool          `json:"is_active" db:"is_active"`
	ExpiresAt   *time.Time    `json:"expires_at,omitempty" db:"expires_at"`
	CreatedAt   time.Time     `json:"created_at" db:"created_at"`
	LastUsedAt  *time.Time    `json:"last_used_at,omitempty" db:"last_used_at"`
}

// CreateAPIKeyRequest is the request body for creating an API key.
type CreateAPIKeyRequest struct {
	Name        string     `json:"name"`
	Permissions []string   `json:"permissions,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

// UpdateAPIKeyRequest is the request body for updating an API key.
// Nil fields are left unchanged.
type UpdateAPIKeyRequest struct {
	Name        *string    `json:"name,omitempty"`
	Permissions []string   `json:"permissions,omitempty"`
	IsActive    *bool      `json:"is_active,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

// CreateAPIKeyResponse is returned when creating an API key.
// The key is only shown once.
type CreateAPIKeyResponse struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Key         string        `json:"key"` // Only returned on creation
	KeyPrefix   string        `json:"key_prefix"`
	Permissions PermissionSet `json:"permissions"`
	CreatedAt   time.Time     `json:"created_at"`
}

// KeyIdentity is the authenticated identity attached to a validated request.
type KeyIdentity struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Permissions PermissionSet `json:"permissions"`
}
