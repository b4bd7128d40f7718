package repository

import (
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/aryan0dhankhar/realty/internal/domain"
)

// setBuilder collects "column = $n" assignments for an UPDATE
type setBuilder struct {
	sets []string
	args []any
}

func (b *setBuilder) add(column string, value any) {
	b.args = append(b.args, value)
	b.sets = append(b.sets, fmt.Sprintf("%s = $%d", column, len(b.args)))
}

// where appends a bound argument and returns its placeholder
func (b *setBuilder) where(value any) string {
	b.args = append(b.args, value)
	return fmt.Sprintf("$%d", len(b.args))
}

func (b *setBuilder) clause() string {
	return strings.Join(b.sets, ", ")
}

func listingUpdate(p *domain.ListingPatch) *setBuilder {
	b := &setBuilder{}
	if p.TenantID != nil {
		b.add("tenant_id", *p.TenantID)
	}
	if p.AgentID != nil {
		b.add("agent_id", *p.AgentID)
	}
	if p.Title != nil {
		b.add("title", *p.Title)
	}
	if p.Description != nil {
		b.add("description", *p.Description)
	}
	if p.Address != nil {
		b.add("address", *p.Address)
	}
	if p.City != nil {
		b.add("city", *p.City)
	}
	if p.Country != nil {
		b.add("country", *p.Country)
	}
	if p.Price != nil {
		b.add("price", *p.Price)
	}
	if p.Bedrooms != nil {
		b.add("bedrooms", *p.Bedrooms)
	}
	if p.Bathrooms != nil {
		b.add("bathrooms", *p.Bathrooms)
	}
	if p.AreaSqft != nil {
		b.add("area_sqft", *p.AreaSqft)
	}
	if p.ImageURLs != nil {
		b.add("image_urls", pq.Array(p.ImageURLs))
	}
	if p.Status != nil {
		b.add("status", string(*p.Status))
	}
	if p.RefID != nil {
		b.add("listing_ref_id", *p.RefID)
	}
	return b
}

func profileUpdate(p *domain.ProfilePatch) *setBuilder {
	b := &setBuilder{}
	if p.FullName != nil {
		b.add("full_name", *p.FullName)
	}
	if p.Username != nil {
		b.add("username", *p.Username)
	}
	if p.AvatarURL != nil {
		b.add("avatar_url", *p.AvatarURL)
	}
	return b
}
