package storetest

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/aryan0dhankhar/realty/internal/domain"
	"github.com/aryan0dhankhar/realty/internal/repository"
)

// Client is the request-scoped view of a Store
type Client struct {
	store    *Store
	token    string
	identity *domain.Identity
}

func (c *Client) Identity(ctx context.Context) (*domain.Identity, error) {
	id, err := c.store.Verify(ctx, c.token)
	if err != nil {
		return nil, domain.Unauthorized("Unauthorized: Invalid token")
	}
	return id, nil
}

func (c *Client) GetProfile(_ context.Context, id string) (*domain.Profile, error) {
	s := c.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.read(); err != nil {
		return nil, err
	}
	p, ok := s.profiles[id]
	if !ok {
		return nil, domain.NotFound("Profile not found")
	}
	cp := *p
	return &cp, nil
}

func (c *Client) CreateListing(_ context.Context, in *domain.ListingInput) (*domain.Listing, error) {
	s := c.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.write("create listing"); err != nil {
		return nil, err
	}
	l := &domain.Listing{
		ID:          uuid.NewString(),
		CreatedAt:   time.Now(),
		TenantID:    in.TenantID,
		AgentID:     in.AgentID,
		Title:       in.Title,
		Description: in.Description,
		Address:     in.Address,
		City:        in.City,
		Country:     in.Country,
		Bedrooms:    in.Bedrooms,
		Bathrooms:   in.Bathrooms,
		AreaSqft:    in.AreaSqft,
		ImageURLs:   in.ImageURLs,
		Status:      in.Status,
		RefID:       repository.NewRefID(),
	}
	if in.ID != nil {
		l.ID = *in.ID
	}
	if in.Price != nil {
		l.Price = *in.Price
	}
	if in.RefID != nil {
		l.RefID = *in.RefID
	}
	if l.Status == "" {
		l.Status = domain.StatusAvailable
	}
	s.listings[l.ID] = l
	return l, nil
}

func (c *Client) UpdateListing(_ context.Context, tenantID, id string, patch *domain.ListingPatch) (*domain.Listing, error) {
	s := c.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.write("update listing"); err != nil {
		return nil, err
	}
	l, ok := s.listings[id]
	if !ok || l.TenantID != tenantID {
		return nil, domain.NotFound("Listing not found")
	}
	patch.Apply(l)
	return l, nil
}

func (c *Client) DeleteListing(_ context.Context, tenantID, id string) error {
	s := c.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.write("delete listing"); err != nil {
		return err
	}
	l, ok := s.listings[id]
	if !ok || l.TenantID != tenantID {
		return domain.NotFound("Listing not found")
	}
	delete(s.listings, id)
	return nil
}

func (c *Client) UpdateProfile(_ context.Context, userID string, tenantID *string, patch *domain.ProfilePatch) (*domain.Profile, error) {
	s := c.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.write("update profile"); err != nil {
		return nil, err
	}
	p, ok := s.profiles[userID]
	if !ok {
		return nil, domain.NotFound("Profile not found")
	}
	if tenantID != nil {
		if t, has := p.Tenant(); !has || t != *tenantID {
			return nil, domain.NotFound("Profile not found")
		}
	}
	if patch.FullName != nil {
		p.FullName = patch.FullName
	}
	if patch.Username != nil {
		p.Username = patch.Username
	}
	if patch.AvatarURL != nil {
		p.AvatarURL = patch.AvatarURL
	}
	cp := *p
	return &cp, nil
}
