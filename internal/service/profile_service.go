package service

import (
	"context"
	"log/slog"

	"github.com/aryan0dhankhar/realty/internal/domain"
	"github.com/aryan0dhankhar/realty/internal/security"
	"github.com/aryan0dhankhar/realty/internal/security/audit"
)

// ProfileService handles team listings and profile updates
type ProfileService struct {
	reader    domain.Reader
	authz     *security.AuthorizationService
	ownership *security.OwnershipPolicy
	auditLog  *audit.Logger
	logger    *slog.Logger
}

// NewProfileService creates a new profile service
func NewProfileService(
	reader domain.Reader,
	authz *security.AuthorizationService,
	ownership *security.OwnershipPolicy,
	auditLog *audit.Logger,
	logger *slog.Logger,
) *ProfileService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProfileService{
		reader:    reader,
		authz:     authz,
		ownership: ownership,
		auditLog:  auditLog,
		logger:    logger,
	}
}

// ListByTenant returns the team of the caller's own agency
func (s *ProfileService) ListByTenant(ctx context.Context, p *domain.Principal, tenantID string) ([]*domain.ProfileSummary, error) {
	if err := requireUUID("tenantId", tenantID); err != nil {
		return nil, err
	}
	if err := s.authz.ValidateTenantAccess(p.Profile, tenantID); err != nil {
		return nil, err
	}
	return s.reader.ListProfilesByTenant(ctx, tenantID)
}

// Update changes userID's profile. The caller is re-resolved from the
// identity service and must be the target or hold the admin identity role.
// Admins may only reach profiles of their own agency.
func (s *ProfileService) Update(ctx context.Context, p *domain.Principal, userID string, patch *domain.ProfilePatch) (*domain.Profile, error) {
	if err := requireUUID("userId", userID); err != nil {
		return nil, err
	}

	caller, err := p.Client.Identity(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.ownership.CanUpdateProfile(caller, userID); err != nil {
		s.auditLog.LogDenied(ctx, "", caller.ID, "ownership", "update of profile "+userID)
		return nil, err
	}

	var scope *string
	if caller.ID != userID {
		tenantID, err := callerTenant(p)
		if err != nil {
			return nil, err
		}
		scope = &tenantID
	}

	updated, err := p.Client.UpdateProfile(ctx, userID, scope, patch)
	if err != nil {
		return nil, err
	}

	tenantID, _ := updated.Tenant()
	s.auditLog.LogMutation(ctx, tenantID, caller.ID, "update", "profile", userID)
	return updated, nil
}
