package handler

import (
	"log/slog"
	"net/http"

	"github.com/aryan0dhankhar/realty/internal/domain"
	"github.com/aryan0dhankhar/realty/internal/respond"
	"github.com/aryan0dhankhar/realty/internal/security/middleware"
	"github.com/aryan0dhankhar/realty/internal/service"
)

// ProfileHandler handles team and profile requests
type ProfileHandler struct {
	profiles *service.ProfileService
	logger   *slog.Logger
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profiles *service.ProfileService, logger *slog.Logger) *ProfileHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProfileHandler{profiles: profiles, logger: logger}
}

// ListByTenant handles GET /api/profiles/by-tenant/{tenantId}
func (h *ProfileHandler) ListByTenant(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	team, err := h.profiles.ListByTenant(r.Context(), p, r.PathValue("tenantId"))
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, team)
}

// Update handles PATCH /api/profiles/{userId}
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	patch, ok := middleware.BodyFrom[domain.ProfilePatch](r.Context())
	if !ok {
		patch = &domain.ProfilePatch{}
	}

	profile, err := h.profiles.Update(r.Context(), p, r.PathValue("userId"), patch)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, profile)
}
