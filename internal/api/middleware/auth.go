package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/atelierhq/storefront/internal/domain"
	"github.com/atelierhq/storefront/internal/service"
)

type contextKey string

const keyIdentityContextKey contextKey = "key_identity"

// RequireKey creates middleware that authenticates the bearer API key and
// enforces the required permission. Auth failures map to 401, permission
// failures to 403, each with a stable machine code.
func RequireKey(authSvc *service.AuthService, required domain.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := authSvc.Authorize(r.Context(), r.Header.Get("Authorization"), required)
			if err != nil {
				writeAuthError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), keyIdentityContextKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetKeyIdentity retrieves the authenticated key identity from the request context.
func GetKeyIdentity(ctx context.Context) *domain.KeyIdentity {
	identity, _ := ctx.Value(keyIdentityContextKey).(*domain.KeyIdentity)
	return identity
}

func writeAuthError(w http.ResponseWriter, err error) {
	var status int
	var code, message string

	switch {
	case errors.Is(err, domain.ErrMissingAuthHeader):
		status, code, message = http.StatusUnauthorized, domain.ErrCodeMissingHeader, "missing authorization header"
	case errors.Is(err, domain.ErrMalformedAuthHeader):
		status, code, message = http.StatusUnauthorized, domain.ErrCodeMalformedAuth, "authorization header must be 'Bearer <key>'"
	case errors.Is(err, domain.ErrInvalidAPIKey):
		status, code, message = http.StatusUnauthorized, domain.ErrCodeInvalidKey, "invalid API key"
	case errors.Is(err, domain.ErrKeyDeactivated):
		status, code, message = http.StatusUnauthorized, domain.ErrCodeKeyDeactivated, "API key is deactivated"
	case errors.Is(err, domain.ErrKeyExpired):
		status, code, message = http.StatusUnauthorized, domain.ErrCodeKeyExpired, "API key has expired"
	case errors.Is(err, domain.ErrPermissionDenied):
		status, code, message = http.StatusForbidden, domain.ErrCodeForbidden, "API key lacks the required permission"
	default:
		status, code, message = http.StatusInternalServerError, domain.ErrCodeInternalError, "internal server error"
	}

	writeError(w, status, code, message)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(&domain.StandardErrorResponse{
		Error: domain.StandardError{Code: code, Message: message},
	})
}
