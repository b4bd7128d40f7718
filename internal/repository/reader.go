package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"github.com/aryan0dhankhar/realty/internal/domain"
)

// PostgresReader implements domain.Reader over the long-lived service
// connection. It is used only for public browse paths.
type PostgresReader struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresReader creates a new unscoped reader
func NewPostgresReader(db *sql.DB, logger *slog.Logger) *PostgresReader {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresReader{db: db, logger: logger}
}

// ListListingsByTenant returns a tenant's listings, newest first
func (r *PostgresReader) ListListingsByTenant(ctx context.Context, tenantID string) (_ []*domain.Listing, err error) {
	ctx, done := observe(ctx, "list_listings", attribute.String("tenant_id", tenantID))
	defer func() { done(err) }()

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+listingColumns+`
		FROM listings
		WHERE tenant_id = $1
		ORDER BY created_at DESC
	`, tenantID)
	if err != nil {
		r.logger.Error("failed to list listings", slog.String("tenant_id", tenantID), slog.String("error", err.Error()))
		return nil, domain.Upstream("Failed to fetch listings", err)
	}
	defer rows.Close()

	out := make([]*domain.Listing, 0)
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, domain.Upstream("Failed to fetch listings", fmt.Errorf("scan listing: %w", err))
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Upstream("Failed to fetch listings", err)
	}
	return out, nil
}

// GetListingByRefID looks up one listing by its public reference
func (r *PostgresReader) GetListingByRefID(ctx context.Context, refID string) (_ *domain.Listing, err error) {
	ctx, done := observe(ctx, "get_listing", attribute.String("listing_ref_id", refID))
	defer func() { done(err) }()

	row := r.db.QueryRowContext(ctx, `
		SELECT `+listingColumns+`
		FROM listings
		WHERE listing_ref_id = $1
	`, refID)
	l, err := scanListing(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound("Listing not found")
		}
		return nil, domain.Upstream("Failed to fetch listing", err)
	}
	return l, nil
}

// ListProfilesByTenant returns the team page projection of a tenant's profiles
func (r *PostgresReader) ListProfilesByTenant(ctx context.Context, tenantID string) (_ []*domain.ProfileSummary, err error) {
	ctx, done := observe(ctx, "list_profiles", attribute.String("tenant_id", tenantID))
	defer func() { done(err) }()

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+profileSummaryColumns+`
		FROM profiles
		WHERE tenant_id = $1
		ORDER BY full_name NULLS LAST, id
	`, tenantID)
	if err != nil {
		return nil, domain.Upstream("Failed to fetch profiles", err)
	}
	defer rows.Close()

	out := make([]*domain.ProfileSummary, 0)
	for rows.Next() {
		p, err := scanProfileSummary(rows)
		if err != nil {
			return nil, domain.Upstream("Failed to fetch profiles", fmt.Errorf("scan profile: %w", err))
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Upstream("Failed to fetch profiles", err)
	}
	return out, nil
}
