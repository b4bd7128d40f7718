package domain

import "time"

// ListingStatus is the sale state of a listing
type ListingStatus string

const (
	StatusAvailable ListingStatus = "available"
	StatusSold      ListingStatus = "sold"
	StatusRented    ListingStatus = "rented"
)

// Listing represents a property owned by one tenant and authored by one profile
type Listing struct {
	ID          string        `json:"id"`
	CreatedAt   time.Time     `json:"created_at"`
	TenantID    string        `json:"tenant_id"`
	AgentID     string        `json:"agent_id"`
	Title       string        `json:"title"`
	Description *string       `json:"description"`
	Address     *string       `json:"address"`
	City        *string       `json:"city"`
	Country     *string       `json:"country"`
	Price       float64       `json:"price"`
	Bedrooms    *int          `json:"bedrooms"`
	Bathrooms   *int          `json:"bathrooms"`
	AreaSqft    *int          `json:"area_sqft"`
	ImageURLs   []string      `json:"image_urls"`
	Status      ListingStatus `json:"status"`
	RefID       string        `json:"listing_ref_id"`
}

// ListingInput is the create-listing body.
// Price is a pointer so an absent price and a zero price are both rejected.
type ListingInput struct {
	ID          *string       `json:"id,omitempty" validate:"omitempty,uuid"`
	CreatedAt   *string       `json:"created_at,omitempty" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	TenantID    string        `json:"tenant_id" validate:"required,uuid"`
	AgentID     string        `json:"agent_id" validate:"required,uuid"`
	Title       string        `json:"title" validate:"required,min=5"`
	Description *string       `json:"description,omitempty"`
	Address     *string       `json:"address,omitempty"`
	City        *string       `json:"city,omitempty"`
	Country     *string       `json:"country,omitempty"`
	Price       *float64      `json:"price" validate:"required,gt=0"`
	Bedrooms    *int          `json:"bedrooms,omitempty" validate:"omitempty,gte=0"`
	Bathrooms   *int          `json:"bathrooms,omitempty" validate:"omitempty,gte=0"`
	AreaSqft    *int          `json:"area_sqft,omitempty" validate:"omitempty,gte=0"`
	ImageURLs   []string      `json:"image_urls,omitempty" validate:"omitempty,dive,url"`
	Status      ListingStatus `json:"status,omitempty" validate:"omitempty,oneof=available sold rented"`
	RefID       *string       `json:"listing_ref_id,omitempty" validate:"omitempty,min=1,max=64"`
}

// ApplyDefaults fills fields the schema defaults
func (in *ListingInput) ApplyDefaults() {
	if in.Status == "" {
		in.Status = StatusAvailable
	}
}

// ListingPatch is the partial-update body; nil fields are left untouched
type ListingPatch struct {
	TenantID    *string        `json:"tenant_id,omitempty" validate:"omitempty,uuid"`
	AgentID     *string        `json:"agent_id,omitempty" validate:"omitempty,uuid"`
	Title       *string        `json:"title,omitempty" validate:"omitempty,min=5"`
	Description *string        `json:"description,omitempty"`
	Address     *string        `json:"address,omitempty"`
	City        *string        `json:"city,omitempty"`
	Country     *string        `json:"country,omitempty"`
	Price       *float64       `json:"price,omitempty" validate:"omitempty,gt=0"`
	Bedrooms    *int           `json:"bedrooms,omitempty" validate:"omitempty,gte=0"`
	Bathrooms   *int           `json:"bathrooms,omitempty" validate:"omitempty,gte=0"`
	AreaSqft    *int           `json:"area_sqft,omitempty" validate:"omitempty,gte=0"`
	ImageURLs   []string       `json:"image_urls,omitempty" validate:"omitempty,dive,url"`
	Status      *ListingStatus `json:"status,omitempty" validate:"omitempty,oneof=available sold rented"`
	RefID       *string        `json:"listing_ref_id,omitempty" validate:"omitempty,min=1,max=64"`
}

// Empty reports whether the patch changes nothing
func (p *ListingPatch) Empty() bool {
	return p == nil || (p.TenantID == nil && p.AgentID == nil && p.Title == nil &&
		p.Description == nil && p.Address == nil && p.City == nil && p.Country == nil &&
		p.Price == nil && p.Bedrooms == nil && p.Bathrooms == nil && p.AreaSqft == nil &&
		p.ImageURLs == nil && p.Status == nil && p.RefID == nil)
}

// Apply copies the set fields of p onto l
func (p *ListingPatch) Apply(l *Listing) {
	if p == nil || l == nil {
		return
	}
	if p.TenantID != nil {
		l.TenantID = *p.TenantID
	}
	if p.AgentID != nil {
		l.AgentID = *p.AgentID
	}
	if p.Title != nil {
		l.Title = *p.Title
	}
	if p.Description != nil {
		l.Description = p.Description
	}
	if p.Address != nil {
		l.Address = p.Address
	}
	if p.City != nil {
		l.City = p.City
	}
	if p.Country != nil {
		l.Country = p.Country
	}
	if p.Price != nil {
		l.Price = *p.Price
	}
	if p.Bedrooms != nil {
		l.Bedrooms = p.Bedrooms
	}
	if p.Bathrooms != nil {
		l.Bathrooms = p.Bathrooms
	}
	if p.AreaSqft != nil {
		l.AreaSqft = p.AreaSqft
	}
	if p.ImageURLs != nil {
		l.ImageURLs = p.ImageURLs
	}
	if p.Status != nil {
		l.Status = *p.Status
	}
	if p.RefID != nil {
		l.RefID = *p.RefID
	}
}
