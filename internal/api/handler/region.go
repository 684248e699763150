package handler

import (
	"net/http"

	"github.com/atelierhq/storefront/internal/domain"
	"github.com/atelierhq/storefront/internal/service"
	"github.com/go-chi/chi/v5"
)

// RegionHandler handles pricing region endpoints. Reads are public;
// mutations are admin-session-gated by the router.
type RegionHandler struct {
	regions *service.RegionService
}

// NewRegionHandler creates a new RegionHandler.
func NewRegionHandler(regions *service.RegionService) *RegionHandler {
	return &RegionHandler{regions: regions}
}

// List lists all pricing regions.
func (h *RegionHandler) List(w http.ResponseWriter, r *http.Request) {
	regions, err := h.regions.List(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, regions)
}

// Get returns a single pricing region.
func (h *RegionHandler) Get(w http.ResponseWriter, r *http.Request) {
	region, err := h.regions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, region)
}

// Create creates a pricing region.
func (h *RegionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateRegionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, domain.ErrCodeValidationError, "invalid request body")
		return
	}

	region, err := h.regions.Create(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, region)
}

// Update applies a partial update to a pricing region.
func (h *RegionHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateRegionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, domain.ErrCodeValidationError, "invalid request body")
		return
	}

	region, err := h.regions.Update(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, region)
}

// Delete removes a pricing region and its price overrides.
func (h *RegionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.regions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListPrices lists a region's price overrides.
func (h *RegionHandler) ListPrices(w http.ResponseWriter, r *http.Request) {
	overrides, err := h.regions.ListPriceOverrides(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, overrides)
}

// SetPrice upserts a price override for one product in the region.
func (h *RegionHandler) SetPrice(w http.ResponseWriter, r *http.Request) {
	var req domain.SetPriceOverrideRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, domain.ErrCodeValidationError, "invalid request body")
		return
	}

	override, err := h.regions.SetPriceOverride(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, override)
}

// DeletePrice removes a price override.
func (h *RegionHandler) DeletePrice(w http.ResponseWriter, r *http.Request) {
	err := h.regions.DeletePriceOverride(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "productId"))
	if err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
