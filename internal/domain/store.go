package domain

import "context"

// IdentityVerifier exchanges a bearer token for a verified identity
type IdentityVerifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// Reader serves the public browse paths. It is not scoped to any caller.
type Reader interface {
	ListTenants(ctx context.Context) ([]*Tenant, error)
	GetTenantBySlug(ctx context.Context, slug string) (*Tenant, error)
	ListListingsByTenant(ctx context.Context, tenantID string) ([]*Listing, error)
	GetListingByRefID(ctx context.Context, refID string) (*Listing, error)
	ListProfilesByTenant(ctx context.Context, tenantID string) ([]*ProfileSummary, error)
}

// ScopedClient performs data access as one verified identity, so every
// statement is subject to the store's row-level security.
type ScopedClient interface {
	// Identity re-resolves the caller from the identity service
	Identity(ctx context.Context) (*Identity, error)
	GetProfile(ctx context.Context, id string) (*Profile, error)
	CreateListing(ctx context.Context, in *ListingInput) (*Listing, error)
	UpdateListing(ctx context.Context, tenantID, id string, patch *ListingPatch) (*Listing, error)
	DeleteListing(ctx context.Context, tenantID, id string) error
	// UpdateProfile restricts the update to tenantID when it is non-nil
	UpdateProfile(ctx context.Context, userID string, tenantID *string, patch *ProfilePatch) (*Profile, error)
}

// Connector opens a ScopedClient for one request's credential
type Connector interface {
	Connect(token string, identity *Identity) ScopedClient
}
