package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/aryan0dhankhar/realty/internal/domain"
)

// ListTenants returns every agency ordered by name
func (r *PostgresReader) ListTenants(ctx context.Context) (_ []*domain.Tenant, err error) {
	ctx, done := observe(ctx, "list_tenants")
	defer func() { done(err) }()

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+tenantColumns+`
		FROM tenants
		ORDER BY name
	`)
	if err != nil {
		return nil, domain.Upstream("Failed to fetch tenants", err)
	}
	defer rows.Close()

	out := make([]*domain.Tenant, 0)
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, domain.Upstream("Failed to fetch tenants", fmt.Errorf("scan tenant: %w", err))
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Upstream("Failed to fetch tenants", err)
	}
	return out, nil
}

// GetTenantBySlug retrieves an agency by its URL slug
func (r *PostgresReader) GetTenantBySlug(ctx context.Context, slug string) (_ *domain.Tenant, err error) {
	ctx, done := observe(ctx, "get_tenant", attribute.String("slug", slug))
	defer func() { done(err) }()

	row := r.db.QueryRowContext(ctx, `
		SELECT `+tenantColumns+`
		FROM tenants
		WHERE slug = $1
	`, slug)
	t, err := scanTenant(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound("Tenant not found")
		}
		return nil, domain.Upstream("Failed to fetch tenant", err)
	}
	return t, nil
}
