package middleware

import (
	"context"
	"net/http"

	"github.com/atelierhq/storefront/internal/auth"
	"github.com/atelierhq/storefront/internal/domain"
)

const sessionContextKey contextKey = "admin_session"

// AdminSession creates middleware that gates staff endpoints behind the
// encrypted session cookie. Unlike a browser flow there is no redirect;
// API paths get a 401 JSON body.
func AdminSession(sessions *auth.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if sessions == nil {
				writeError(w, http.StatusUnauthorized, domain.ErrCodeUnauthorized, "admin authentication is not configured")
				return
			}

			session, err := sessions.Get(r)
			if err != nil {
				writeError(w, http.StatusUnauthorized, domain.ErrCodeUnauthorized, "admin session required")
				return
			}

			ctx := context.WithValue(r.Context(), sessionContextKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSession retrieves the staff session from the request context.
func GetSession(ctx context.Context) *auth.Session {
	session, _ := ctx.Value(sessionContextKey).(*auth.Session)
	return session
}
