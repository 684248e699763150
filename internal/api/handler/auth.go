package handler

import (
	"log/slog"
	"net/http"

	"github.com/atelierhq/storefront/internal/auth"
	"github.com/atelierhq/storefront/internal/domain"
)

// AuthComponents bundles the pieces of the staff OIDC login flow. Nil when
// admin authentication is disabled.
type AuthComponents struct {
	Provider *auth.OIDCProvider
	Sessions *auth.SessionManager
	States   *auth.StateStore
}

// AuthHandler handles the staff session endpoints. The identity itself comes
// from the external OIDC provider; this layer only runs the code flow and
// manages the encrypted session cookie.
type AuthHandler struct {
	components *AuthComponents
	logger     *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(components *AuthComponents, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{components: components, logger: logger}
}

func (h *AuthHandler) enabled() bool {
	return h.components != nil && h.components.Provider != nil
}

// Login initiates the OIDC login flow.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !h.enabled() {
		respondError(w, http.StatusNotFound, domain.ErrCodeResourceNotFound, "admin authentication is not enabled")
		return
	}

	stateData, err := h.components.States.Generate(w)
	if err != nil {
		h.logger.Error("failed to generate OIDC state", "error", err)
		respondError(w, http.StatusInternalServerError, domain.ErrCodeInternalError, "failed to initiate login")
		return
	}

	http.Redirect(w, r, h.components.Provider.AuthCodeURL(stateData.State, stateData.Nonce), http.StatusSeeOther)
}

// Callback handles the OIDC redirect after authentication.
func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	if !h.enabled() {
		respondError(w, http.StatusNotFound, domain.ErrCodeResourceNotFound, "admin authentication is not enabled")
		return
	}

	ctx := r.Context()

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.logger.Warn("OIDC provider returned error", "error", errParam,
			"description", r.URL.Query().Get("error_description"))
		respondError(w, http.StatusUnauthorized, domain.ErrCodeUnauthorized, "login was not completed")
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		respondError(w, http.StatusBadRequest, domain.ErrCodeValidationError, "no authorization code received")
		return
	}

	stateData, err := h.components.States.Validate(r, r.URL.Query().Get("state"))
	if err != nil {
		h.logger.Warn("OIDC state validation failed", "error", err)
		respondError(w, http.StatusUnauthorized, domain.ErrCodeUnauthorized, "invalid state parameter")
		return
	}
	h.components.States.Clear(w)

	claims, err := h.components.Provider.Exchange(ctx, code, stateData.Nonce)
	if err != nil {
		h.logger.Warn("OIDC token exchange failed", "error", err)
		respondError(w, http.StatusUnauthorized, domain.ErrCodeUnauthorized, "failed to complete authentication")
		return
	}

	if err := h.components.Provider.ValidateClaims(claims); err != nil {
		h.logger.Warn("OIDC claims rejected", "error", err)
		respondError(w, http.StatusForbidden, domain.ErrCodeForbidden, "account is not allowed to sign in")
		return
	}

	session := &auth.Session{
		Subject: claims.Subject,
		Email:   claims.Email,
		Name:    claims.Name,
	}
	if err := h.components.Sessions.Create(w, session); err != nil {
		h.logger.Error("failed to create session", "error", err)
		respondError(w, http.StatusInternalServerError, domain.ErrCodeInternalError, "failed to create session")
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout clears the admin session cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if h.components != nil && h.components.Sessions != nil {
		h.components.Sessions.Clear(w)
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Session returns the current staff identity, or 401 without one.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	if h.components == nil || h.components.Sessions == nil {
		respondError(w, http.StatusUnauthorized, domain.ErrCodeUnauthorized, "admin authentication is not configured")
		return
	}

	session, err := h.components.Sessions.Get(r)
	if err != nil {
		respondError(w, http.StatusUnauthorized, domain.ErrCodeUnauthorized, "no active session")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"email": session.Email,
		"name":  session.Name,
	})
}
