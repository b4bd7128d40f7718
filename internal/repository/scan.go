package repository

import (
	"database/sql"
	"time"

	"github.com/lib/pq"

	"github.com/aryan0dhankhar/realty/internal/domain"
)

const (
	tenantColumns = `id, created_at, name, slug, logo_url, hero_image_url, primary_color,
		contact_email, website_url, tagline, bio`

	listingColumns = `id, created_at, tenant_id, agent_id, title, description, address, city, country,
		price, bedrooms, bathrooms, area_sqft, image_urls, status, listing_ref_id`

	profileColumns = `id, tenant_id, role, full_name, username, avatar_url`

	profileSummaryColumns = `id, full_name, username, role, avatar_url`
)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTenant(row rowScanner) (*domain.Tenant, error) {
	var t domain.Tenant
	var logo, hero, color, email, site, tag, bio sql.NullString
	if err := row.Scan(&t.ID, &t.CreatedAt, &t.Name, &t.Slug, &logo, &hero, &color,
		&email, &site, &tag, &bio); err != nil {
		return nil, err
	}
	t.LogoURL = nullString(logo)
	t.HeroImageURL = nullString(hero)
	t.PrimaryColor = nullString(color)
	t.ContactEmail = nullString(email)
	t.WebsiteURL = nullString(site)
	t.Tagline = nullString(tag)
	t.Bio = nullString(bio)
	return &t, nil
}

func scanListing(row rowScanner) (*domain.Listing, error) {
	var l domain.Listing
	var desc, addr, city, country sql.NullString
	var bedrooms, bathrooms, area sql.NullInt64
	var images pq.StringArray
	var status string
	var createdAt time.Time
	if err := row.Scan(&l.ID, &createdAt, &l.TenantID, &l.AgentID, &l.Title, &desc, &addr, &city, &country,
		&l.Price, &bedrooms, &bathrooms, &area, &images, &status, &l.RefID); err != nil {
		return nil, err
	}
	l.CreatedAt = createdAt
	l.Description = nullString(desc)
	l.Address = nullString(addr)
	l.City = nullString(city)
	l.Country = nullString(country)
	l.Bedrooms = nullInt(bedrooms)
	l.Bathrooms = nullInt(bathrooms)
	l.AreaSqft = nullInt(area)
	l.ImageURLs = []string(images)
	if l.ImageURLs == nil {
		l.ImageURLs = []string{}
	}
	l.Status = domain.ListingStatus(status)
	return &l, nil
}

func scanProfile(row rowScanner) (*domain.Profile, error) {
	var p domain.Profile
	var tenant, name, user, avatar sql.NullString
	var role string
	if err := row.Scan(&p.ID, &tenant, &role, &name, &user, &avatar); err != nil {
		return nil, err
	}
	p.TenantID = nullString(tenant)
	p.Role = domain.Role(role)
	p.FullName = nullString(name)
	p.Username = nullString(user)
	p.AvatarURL = nullString(avatar)
	return &p, nil
}

func scanProfileSummary(row rowScanner) (*domain.ProfileSummary, error) {
	var p domain.ProfileSummary
	var name, user, avatar sql.NullString
	var role string
	if err := row.Scan(&p.ID, &name, &user, &role, &avatar); err != nil {
		return nil, err
	}
	p.FullName = nullString(name)
	p.Username = nullString(user)
	p.Role = domain.Role(role)
	p.AvatarURL = nullString(avatar)
	return &p, nil
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func nullInt(ni sql.NullInt64) *int {
	if !ni.Valid {
		return nil
	}
	v := int(ni.Int64)
	return &v
}
