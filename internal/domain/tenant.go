package domain

import "time"

// Tenant represents an agency, the unit of data isolation
type Tenant struct {
	ID           string    `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	LogoURL      *string   `json:"logo_url"`
	HeroImageURL *string   `json:"hero_image_url"`
	PrimaryColor *string   `json:"primary_color"`
	ContactEmail *string   `json:"contact_email"`
	WebsiteURL   *string   `json:"website_url"`
	Tagline      *string   `json:"tagline"`
	Bio          *string   `json:"bio"`
}
