package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lib/pq"
	"go.opentelemetry.io/otel/attribute"

	"github.com/aryan0dhankhar/realty/internal/domain"
)

// PostgresConnector opens clients that run as the request's identity
type PostgresConnector struct {
	db       *sql.DB
	verifier domain.IdentityVerifier
	logger   *slog.Logger
}

// NewPostgresConnector creates a connector over db. verifier is used when a
// client re-resolves its caller.
func NewPostgresConnector(db *sql.DB, verifier domain.IdentityVerifier, logger *slog.Logger) *PostgresConnector {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresConnector{db: db, verifier: verifier, logger: logger}
}

// Connect implements domain.Connector
func (c *PostgresConnector) Connect(token string, identity *domain.Identity) domain.ScopedClient {
	return &PostgresScopedClient{
		db:       c.db,
		verifier: c.verifier,
		token:    token,
		identity: identity,
		logger:   c.logger.With(slog.String("user_id", identity.ID)),
	}
}

// PostgresScopedClient runs every statement in a transaction that carries the
// caller's JWT claims, so row-level security policies apply to it.
type PostgresScopedClient struct {
	db       *sql.DB
	verifier domain.IdentityVerifier
	token    string
	identity *domain.Identity
	logger   *slog.Logger
}

type jwtClaims struct {
	Sub         string         `json:"sub"`
	Email       string         `json:"email,omitempty"`
	Role        string         `json:"role"`
	AppMetadata map[string]any `json:"app_metadata,omitempty"`
}

func (s *PostgresScopedClient) claims() (string, error) {
	c := jwtClaims{Sub: s.identity.ID, Email: s.identity.Email, Role: "authenticated"}
	if len(s.identity.Roles) > 0 {
		c.AppMetadata = map[string]any{"role": s.identity.Roles[0], "roles": s.identity.Roles}
	}
	b, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// withClaims runs fn in a transaction scoped to the caller
func (s *PostgresScopedClient) withClaims(ctx context.Context, fn func(tx *sql.Tx) error) error {
	claims, err := s.claims()
	if err != nil {
		return fmt.Errorf("encode claims: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`SELECT set_config('request.jwt.claims', $1, true), set_config('role', 'authenticated', true)`,
		claims,
	); err != nil {
		return fmt.Errorf("set request claims: %w", err)
	}

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// Identity re-resolves the caller from the identity service
func (s *PostgresScopedClient) Identity(ctx context.Context) (*domain.Identity, error) {
	id, err := s.verifier.Verify(ctx, s.token)
	if err != nil || id == nil {
		return nil, domain.Unauthorized("Unauthorized: Invalid token")
	}
	return id, nil
}

// GetProfile loads a profile visible to the caller
func (s *PostgresScopedClient) GetProfile(ctx context.Context, id string) (_ *domain.Profile, err error) {
	ctx, done := observe(ctx, "get_profile", attribute.String("profile_id", id))
	defer func() { done(err) }()

	var p *domain.Profile
	err = s.withClaims(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id)
		var scanErr error
		p, scanErr = scanProfile(row)
		return scanErr
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound("Profile not found")
		}
		return nil, domain.Upstream("Failed to fetch profile", err)
	}
	return p, nil
}

// CreateListing inserts a listing. The store assigns id, created_at and a
// reference when the input leaves them out.
func (s *PostgresScopedClient) CreateListing(ctx context.Context, in *domain.ListingInput) (_ *domain.Listing, err error) {
	ctx, done := observe(ctx, "create_listing", attribute.String("tenant_id", in.TenantID))
	defer func() { done(err) }()

	refID := NewRefID()
	if in.RefID != nil {
		refID = *in.RefID
	}
	images := in.ImageURLs
	if images == nil {
		images = []string{}
	}
	status := in.Status
	if status == "" {
		status = domain.StatusAvailable
	}

	var l *domain.Listing
	err = s.withClaims(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, `
			INSERT INTO listings (id, created_at, tenant_id, agent_id, title, description, address, city, country,
				price, bedrooms, bathrooms, area_sqft, image_urls, status, listing_ref_id)
			VALUES (COALESCE($1::uuid, gen_random_uuid()), COALESCE($2::timestamptz, now()), $3, $4, $5, $6, $7, $8, $9,
				$10, $11, $12, $13, $14, $15, $16)
			RETURNING `+listingColumns,
			in.ID, in.CreatedAt, in.TenantID, in.AgentID, in.Title, in.Description, in.Address, in.City, in.Country,
			in.Price, in.Bedrooms, in.Bathrooms, in.AreaSqft, pq.Array(images), string(status), refID,
		)
		var scanErr error
		l, scanErr = scanListing(row)
		return scanErr
	})
	if err != nil {
		s.logger.Error("failed to create listing", slog.String("tenant_id", in.TenantID), slog.String("error", err.Error()))
		return nil, domain.Upstream("Failed to create listing", unwrapPQ(err))
	}
	return l, nil
}

// UpdateListing applies patch to a listing of tenantID. An empty patch
// returns the current row.
func (s *PostgresScopedClient) UpdateListing(ctx context.Context, tenantID, id string, patch *domain.ListingPatch) (_ *domain.Listing, err error) {
	ctx, done := observe(ctx, "update_listing", attribute.String("tenant_id", tenantID), attribute.String("listing_id", id))
	defer func() { done(err) }()

	var l *domain.Listing
	err = s.withClaims(ctx, func(tx *sql.Tx) error {
		var row *sql.Row
		if patch.Empty() {
			row = tx.QueryRowContext(ctx,
				`SELECT `+listingColumns+` FROM listings WHERE id = $1 AND tenant_id = $2`, id, tenantID)
		} else {
			b := listingUpdate(patch)
			query := fmt.Sprintf(`UPDATE listings SET %s WHERE id = %s AND tenant_id = %s RETURNING %s`,
				b.clause(), b.where(id), b.where(tenantID), listingColumns)
			row = tx.QueryRowContext(ctx, query, b.args...)
		}
		var scanErr error
		l, scanErr = scanListing(row)
		return scanErr
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound("Listing not found")
		}
		return nil, domain.Upstream("Failed to update listing", unwrapPQ(err))
	}
	return l, nil
}

// DeleteListing removes a listing of tenantID
func (s *PostgresScopedClient) DeleteListing(ctx context.Context, tenantID, id string) (err error) {
	ctx, done := observe(ctx, "delete_listing", attribute.String("tenant_id", tenantID), attribute.String("listing_id", id))
	defer func() { done(err) }()

	var affected int64
	err = s.withClaims(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM listings WHERE id = $1 AND tenant_id = $2`, id, tenantID)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return domain.Upstream("Failed to delete listing", unwrapPQ(err))
	}
	if affected == 0 {
		return domain.NotFound("Listing not found")
	}
	return nil
}

// UpdateProfile applies patch to userID's profile, restricted to tenantID when set
func (s *PostgresScopedClient) UpdateProfile(ctx context.Context, userID string, tenantID *string, patch *domain.ProfilePatch) (_ *domain.Profile, err error) {
	ctx, done := observe(ctx, "update_profile", attribute.String("profile_id", userID))
	defer func() { done(err) }()

	var p *domain.Profile
	err = s.withClaims(ctx, func(tx *sql.Tx) error {
		b := profileUpdate(patch)
		var query string
		if len(b.sets) == 0 {
			query = fmt.Sprintf(`SELECT %s FROM profiles WHERE id = %s`, profileColumns, b.where(userID))
		} else {
			query = fmt.Sprintf(`UPDATE profiles SET %s WHERE id = %s`, b.clause(), b.where(userID))
		}
		if tenantID != nil {
			query += fmt.Sprintf(` AND tenant_id = %s`, b.where(*tenantID))
		}
		if len(b.sets) > 0 {
			query += ` RETURNING ` + profileColumns
		}
		var scanErr error
		p, scanErr = scanProfile(tx.QueryRowContext(ctx, query, b.args...))
		return scanErr
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound("Profile not found")
		}
		return nil, domain.Upstream("Failed to update profile", unwrapPQ(err))
	}
	return p, nil
}

// unwrapPQ reduces a driver error to the database's own message
func unwrapPQ(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return errors.New(pqErr.Message)
	}
	return err
}
