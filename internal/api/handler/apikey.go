package handler

import (
	"net/http"

	"github.com/atelierhq/storefront/internal/domain"
	"github.com/atelierhq/storefront/internal/service"
	"github.com/atelierhq/storefront/internal/storage"
	"github.com/go-chi/chi/v5"
)

// APIKeyHandler handles the session-gated API key management endpoints.
type APIKeyHandler struct {
	store   storage.Storage
	authSvc *service.AuthService
}

// NewAPIKeyHandler creates a new APIKeyHandler.
func NewAPIKeyHandler(store storage.Storage, authSvc *service.AuthService) *APIKeyHandler {
	return &APIKeyHandler{store: store, authSvc: authSvc}
}

// Create creates a new API key. The raw key appears in this response and
// nowhere else, ever.
func (h *APIKeyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateAPIKeyRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, domain.ErrCodeValidationError, "invalid request body")
		return
	}

	resp, err := h.authSvc.GenerateKey(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, resp)
}

// List lists all API keys without secret material.
func (h *APIKeyHandler) List(w http.ResponseWriter, r *http.Request) {
	keys, err := h.store.ListAPIKeys(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, keys)
}

// Get returns a single API key without secret material.
func (h *APIKeyHandler) Get(w http.ResponseWriter, r *http.Request) {
	key, err := h.store.GetAPIKey(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, key)
}

// Update applies a partial update (name, permissions, active flag, expiry).
func (h *APIKeyHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateAPIKeyRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, domain.ErrCodeValidationError, "invalid request body")
		return
	}

	key, err := h.authSvc.UpdateKey(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, key)
}

// Delete deletes an API key.
func (h *APIKeyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteAPIKey(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
