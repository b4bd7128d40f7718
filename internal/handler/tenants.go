package handler

import (
	"log/slog"
	"net/http"

	"github.com/aryan0dhankhar/realty/internal/respond"
	"github.com/aryan0dhankhar/realty/internal/service"
)

// TenantHandler serves the public agency directory
type TenantHandler struct {
	tenants *service.TenantService
	logger  *slog.Logger
}

// NewTenantHandler creates a new tenant handler
func NewTenantHandler(tenants *service.TenantService, logger *slog.Logger) *TenantHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TenantHandler{tenants: tenants, logger: logger}
}

// List handles GET /api/tenants
func (h *TenantHandler) List(w http.ResponseWriter, r *http.Request) {
	tenants, err := h.tenants.List(r.Context())
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, tenants)
}

// GetBySlug handles GET /api/tenants/{slug}
func (h *TenantHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	tenant, err := h.tenants.GetBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, tenant)
}
