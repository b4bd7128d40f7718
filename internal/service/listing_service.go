package service

import (
	"context"
	"log/slog"

	"github.com/aryan0dhankhar/realty/internal/domain"
	"github.com/aryan0dhankhar/realty/internal/observability/metrics"
	"github.com/aryan0dhankhar/realty/internal/security"
	"github.com/aryan0dhankhar/realty/internal/security/audit"
)

// ListingService handles listing reads and tenant-scoped writes
type ListingService struct {
	reader   domain.Reader
	authz    *security.AuthorizationService
	auditLog *audit.Logger
	logger   *slog.Logger
}

// NewListingService creates a new listing service
func NewListingService(
	reader domain.Reader,
	authz *security.AuthorizationService,
	auditLog *audit.Logger,
	logger *slog.Logger,
) *ListingService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ListingService{
		reader:   reader,
		authz:    authz,
		auditLog: auditLog,
		logger:   logger,
	}
}

// ListByTenant returns a tenant's public listings
func (s *ListingService) ListByTenant(ctx context.Context, tenantID string) ([]*domain.Listing, error) {
	if err := requireUUID("tenantId", tenantID); err != nil {
		return nil, err
	}
	return s.reader.ListListingsByTenant(ctx, tenantID)
}

// GetByRefID returns one public listing
func (s *ListingService) GetByRefID(ctx context.Context, refID string) (*domain.Listing, error) {
	return s.reader.GetListingByRefID(ctx, refID)
}

// Create inserts a listing for the caller's own agency
func (s *ListingService) Create(ctx context.Context, p *domain.Principal, in *domain.ListingInput) (*domain.Listing, error) {
	if err := s.authz.ValidateTenantAccess(p.Profile, in.TenantID); err != nil {
		return nil, err
	}
	in.ApplyDefaults()

	l, err := p.Client.CreateListing(ctx, in)
	if err != nil {
		return nil, err
	}

	s.logger.Info("listing created",
		slog.String("listing_id", l.ID),
		slog.String("listing_ref_id", l.RefID),
		slog.String("tenant_id", l.TenantID),
		slog.String("user_id", p.Profile.ID),
	)
	s.auditLog.LogMutation(ctx, l.TenantID, p.Profile.ID, "create", "listing", l.ID)
	metrics.ObserveListingMutation(l.TenantID, "create")
	return l, nil
}

// Update patches a listing of the caller's agency. A listing of another
// agency is reported as not found.
func (s *ListingService) Update(ctx context.Context, p *domain.Principal, id string, patch *domain.ListingPatch) (*domain.Listing, error) {
	if err := requireUUID("id", id); err != nil {
		return nil, err
	}
	tenantID, err := callerTenant(p)
	if err != nil {
		return nil, err
	}
	if patch.TenantID != nil && *patch.TenantID != tenantID {
		return nil, domain.Forbidden("Forbidden: listings cannot be moved to another agency")
	}

	l, err := p.Client.UpdateListing(ctx, tenantID, id, patch)
	if err != nil {
		return nil, err
	}
	if !patch.Empty() {
		s.auditLog.LogMutation(ctx, tenantID, p.Profile.ID, "update", "listing", id)
		metrics.ObserveListingMutation(tenantID, "update")
	}
	return l, nil
}

// Delete removes a listing of the caller's agency
func (s *ListingService) Delete(ctx context.Context, p *domain.Principal, id string) error {
	if err := requireUUID("id", id); err != nil {
		return err
	}
	tenantID, err := callerTenant(p)
	if err != nil {
		return err
	}
	if err := p.Client.DeleteListing(ctx, tenantID, id); err != nil {
		return err
	}

	s.logger.Info("listing deleted", slog.String("listing_id", id), slog.String("tenant_id", tenantID))
	s.auditLog.LogMutation(ctx, tenantID, p.Profile.ID, "delete", "listing", id)
	metrics.ObserveListingMutation(tenantID, "delete")
	return nil
}
