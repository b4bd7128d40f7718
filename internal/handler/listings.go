package handler

import (
	"log/slog"
	"net/http"

	"github.com/aryan0dhankhar/realty/internal/domain"
	"github.com/aryan0dhankhar/realty/internal/respond"
	"github.com/aryan0dhankhar/realty/internal/security/middleware"
	"github.com/aryan0dhankhar/realty/internal/service"
)

// ListingHandler handles listing browse and management requests
type ListingHandler struct {
	listings *service.ListingService
	logger   *slog.Logger
}

// NewListingHandler creates a new listing handler
func NewListingHandler(listings *service.ListingService, logger *slog.Logger) *ListingHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ListingHandler{listings: listings, logger: logger}
}

// ListByTenant handles GET /api/listings/by-tenant/{tenantId}
func (h *ListingHandler) ListByTenant(w http.ResponseWriter, r *http.Request) {
	listings, err := h.listings.ListByTenant(r.Context(), r.PathValue("tenantId"))
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{"listings": listings})
}

// GetByRefID handles GET /api/listings/{refId}
func (h *ListingHandler) GetByRefID(w http.ResponseWriter, r *http.Request) {
	listing, err := h.listings.GetByRefID(r.Context(), r.PathValue("refId"))
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, listing)
}

// Create handles POST /api/listings
func (h *ListingHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	in, ok := middleware.BodyFrom[domain.ListingInput](r.Context())
	if !ok {
		writeError(h.logger, w, r, domain.Invalid(domain.FieldError{Field: "body", Message: "request body is required"}))
		return
	}

	listing, err := h.listings.Create(r.Context(), p, in)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	respond.JSON(w, http.StatusCreated, listing)
}

// Update handles PATCH /api/listings/{id}
func (h *ListingHandler) Update(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	patch, ok := middleware.BodyFrom[domain.ListingPatch](r.Context())
	if !ok {
		patch = &domain.ListingPatch{}
	}

	listing, err := h.listings.Update(r.Context(), p, r.PathValue("id"), patch)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, listing)
}

// Delete handles DELETE /api/listings/{id}
func (h *ListingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	if err := h.listings.Delete(r.Context(), p, r.PathValue("id")); err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"message": "Listing deleted successfully"})
}
