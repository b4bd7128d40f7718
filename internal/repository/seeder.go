package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/aryan0dhankhar/realty/internal/domain"
)

// SeedUser is a demo staff member created by Seed
type SeedUser struct {
	ID       string
	Email    string
	FullName string
	Role     domain.Role
	Tenant   string
}

type seedTenant struct {
	slug, name, logo, color, email, site, tagline, bio string
}

type seedListing struct {
	tenant, agentEmail, title, description, address, city, country, refID string
	price                                                                 float64
	bedrooms, bathrooms, area                                             int
}

var seedTenants = []seedTenant{
	{
		slug: "abroker", name: "aBroker Real Estate",
		logo: "https://placehold.co/200x80?text=aBroker", color: "#1e40af",
		email: "contact@abroker.com", site: "https://abroker.com",
		tagline: "Finding your next home, faster.",
		bio:     "aBroker Real Estate connects buyers and sellers across the metro area with a data-driven approach.",
	},
	{
		slug: "realstatus", name: "Real Status Properties",
		logo: "https://placehold.co/200x80?text=RealStatus", color: "#b45309",
		email: "hello@realstatus.com", site: "https://realstatus.com",
		tagline: "Luxury living, on your terms.",
		bio:     "Real Status Properties specialises in premium coastal and resort properties.",
	},
}

// SeedUsers are the demo staff of both agencies. Their IDs are stable so
// tokens minted for them keep matching their profiles.
var SeedUsers = []SeedUser{
	seedUser("admin@abroker.com", "Adam Broker", domain.RoleAdmin, "abroker"),
	seedUser("manager@abroker.com", "Mary Manager", domain.RoleManager, "abroker"),
	seedUser("realtor@abroker.com", "Rick Realtor", domain.RoleRealtor, "abroker"),
	seedUser("admin@realstatus.com", "Stacy Status", domain.RoleAdmin, "realstatus"),
	seedUser("manager@realstatus.com", "Mike Manager", domain.RoleManager, "realstatus"),
	seedUser("realtor1@realstatus.com", "Rachel Realtor", domain.RoleRealtor, "realstatus"),
}

var seedListings = []seedListing{
	{
		tenant: "abroker", agentEmail: "realtor@abroker.com",
		title:       "Downtown Modern Loft",
		description: "A bright open-plan loft in the heart of downtown with floor-to-ceiling windows.",
		address:     "123 Main St", city: "Metropolis", country: "USA", refID: "LST-ABR-001",
		price: 650000, bedrooms: 2, bathrooms: 2, area: 1200,
	},
	{
		tenant: "realstatus", agentEmail: "realtor1@realstatus.com",
		title:       "Luxury Beachfront Villa",
		description: "Private beach access, infinity pool and panoramic ocean views.",
		address:     "1 Ocean Drive", city: "Paradise City", country: "USA", refID: "LST-RST-001",
		price: 2500000, bedrooms: 5, bathrooms: 6, area: 5000,
	},
}

func seedUser(email, name string, role domain.Role, tenant string) SeedUser {
	return SeedUser{
		ID:       uuid.NewSHA1(uuid.NameSpaceURL, []byte("realty:user:"+email)).String(),
		Email:    email,
		FullName: name,
		Role:     role,
		Tenant:   tenant,
	}
}

// Seed upserts the demo agencies, staff profiles and listings. It runs on the
// service connection and is safe to repeat.
func Seed(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	tenantIDs := make(map[string]string, len(seedTenants))
	for _, t := range seedTenants {
		var id string
		err := tx.QueryRowContext(ctx, `
			INSERT INTO tenants (name, slug, logo_url, primary_color, contact_email, website_url, tagline, bio)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name
			RETURNING id
		`, t.name, t.slug, t.logo, t.color, t.email, t.site, t.tagline, t.bio).Scan(&id)
		if err != nil {
			return fmt.Errorf("seed tenant %s: %w", t.slug, err)
		}
		tenantIDs[t.slug] = id
		logger.Info("seeded tenant", slog.String("slug", t.slug), slog.String("tenant_id", id))
	}

	userIDs := make(map[string]string, len(SeedUsers))
	for _, u := range SeedUsers {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO profiles (id, tenant_id, role, full_name, username)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (id) DO UPDATE SET tenant_id = EXCLUDED.tenant_id, role = EXCLUDED.role
		`, u.ID, tenantIDs[u.Tenant], string(u.Role), u.FullName, u.Email)
		if err != nil {
			return fmt.Errorf("seed profile %s: %w", u.Email, err)
		}
		userIDs[u.Email] = u.ID
	}

	for _, l := range seedListings {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO listings (tenant_id, agent_id, title, description, address, city, country,
				price, bedrooms, bathrooms, area_sqft, image_urls, status, listing_ref_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, 'available', $13)
			ON CONFLICT (listing_ref_id) DO NOTHING
		`, tenantIDs[l.tenant], userIDs[l.agentEmail], l.title, l.description, l.address, l.city, l.country,
			l.price, l.bedrooms, l.bathrooms, l.area, pq.Array([]string{}), l.refID)
		if err != nil {
			return fmt.Errorf("seed listing %s: %w", l.refID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}
	logger.Info("seed complete",
		slog.Int("tenants", len(seedTenants)),
		slog.Int("profiles", len(SeedUsers)),
		slog.Int("listings", len(seedListings)),
	)
	return nil
}
