// Package storetest provides an in-memory store and identity service for tests.
package storetest

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aryan0dhankhar/realty/internal/domain"
	"github.com/aryan0dhankhar/realty/internal/repository"
)

// Store implements domain.Reader, domain.Connector and domain.IdentityVerifier
// in memory. Every data access is counted so tests can assert that a request
// never reached the store.
type Store struct {
	mu         sync.Mutex
	tenants    map[string]*domain.Tenant
	listings   map[string]*domain.Listing
	profiles   map[string]*domain.Profile
	identities map[string]*domain.Identity

	// Fail makes every data access return an upstream error
	Fail error

	Reads, Writes, Verifies, Connects int
}

func New() *Store {
	return &Store{
		tenants:    map[string]*domain.Tenant{},
		listings:   map[string]*domain.Listing{},
		profiles:   map[string]*domain.Profile{},
		identities: map[string]*domain.Identity{},
	}
}

// DataCalls is the number of reads and writes served so far
func (s *Store) DataCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Reads + s.Writes
}

// AddTenant registers an agency and returns it
func (s *Store) AddTenant(slug, name string) *domain.Tenant {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &domain.Tenant{ID: uuid.NewString(), CreatedAt: time.Now(), Name: name, Slug: slug}
	s.tenants[t.ID] = t
	return t
}

// AddUser registers an identity reachable with token and, when role is set,
// its profile. identityRoles become the identity-level role metadata.
func (s *Store) AddUser(token string, role domain.Role, tenantID *string, identityRoles ...string) (*domain.Identity, *domain.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := &domain.Identity{ID: uuid.NewString(), Email: token + "@example.com", Roles: identityRoles}
	s.identities[token] = id
	if role == "" {
		return id, nil
	}
	name := token
	p := &domain.Profile{ID: id.ID, TenantID: tenantID, Role: role, FullName: &name}
	s.profiles[p.ID] = p
	return id, p
}

// AddListing stores l, filling id and reference when empty
func (s *Store) AddListing(l *domain.Listing) *domain.Listing {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if l.RefID == "" {
		l.RefID = repository.NewRefID()
	}
	if l.Status == "" {
		l.Status = domain.StatusAvailable
	}
	s.listings[l.ID] = l
	return l
}

// Listing returns the stored listing with id
func (s *Store) Listing(id string) (*domain.Listing, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.listings[id]
	return l, ok
}

// Profile returns the stored profile with id
func (s *Store) Profile(id string) (*domain.Profile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[id]
	return p, ok
}

// Verify implements domain.IdentityVerifier
func (s *Store) Verify(_ context.Context, token string) (*domain.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Verifies++
	id, ok := s.identities[token]
	if !ok {
		return nil, errors.New("invalid token")
	}
	cp := *id
	return &cp, nil
}

// Connect implements domain.Connector
func (s *Store) Connect(token string, identity *domain.Identity) domain.ScopedClient {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Connects++
	return &Client{store: s, token: token, identity: identity}
}

func (s *Store) read() error {
	s.Reads++
	if s.Fail != nil {
		return domain.Upstream("Failed to fetch", s.Fail)
	}
	return nil
}

func (s *Store) write(op string) error {
	s.Writes++
	if s.Fail != nil {
		return domain.Upstream("Failed to "+op, s.Fail)
	}
	return nil
}

func (s *Store) ListTenants(_ context.Context) ([]*domain.Tenant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.read(); err != nil {
		return nil, err
	}
	out := make([]*domain.Tenant, 0, len(s.tenants))
	for _, t := range s.tenants {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) GetTenantBySlug(_ context.Context, slug string) (*domain.Tenant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.read(); err != nil {
		return nil, err
	}
	for _, t := range s.tenants {
		if t.Slug == slug {
			return t, nil
		}
	}
	return nil, domain.NotFound("Tenant not found")
}

func (s *Store) ListListingsByTenant(_ context.Context, tenantID string) ([]*domain.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.read(); err != nil {
		return nil, err
	}
	out := make([]*domain.Listing, 0)
	for _, l := range s.listings {
		if l.TenantID == tenantID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) GetListingByRefID(_ context.Context, refID string) (*domain.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.read(); err != nil {
		return nil, err
	}
	for _, l := range s.listings {
		if l.RefID == refID {
			return l, nil
		}
	}
	return nil, domain.NotFound("Listing not found")
}

func (s *Store) ListProfilesByTenant(_ context.Context, tenantID string) ([]*domain.ProfileSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.read(); err != nil {
		return nil, err
	}
	out := make([]*domain.ProfileSummary, 0)
	for _, p := range s.profiles {
		if t, ok := p.Tenant(); ok && t == tenantID {
			out = append(out, &domain.ProfileSummary{
				ID: p.ID, FullName: p.FullName, Username: p.Username, Role: p.Role, AvatarURL: p.AvatarURL,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
