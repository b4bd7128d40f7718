package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aryan0dhankhar/realty/internal/domain"
	"github.com/aryan0dhankhar/realty/internal/respond"
	"github.com/aryan0dhankhar/realty/internal/security"
	"github.com/aryan0dhankhar/realty/internal/security/audit"
	"github.com/aryan0dhankhar/realty/internal/security/ratelimit"
	"github.com/aryan0dhankhar/realty/internal/service"
	"github.com/aryan0dhankhar/realty/internal/storetest"
	"github.com/aryan0dhankhar/realty/internal/validation"
)

type testServer struct {
	store   *storetest.Store
	handler http.Handler
	tenantA *domain.Tenant
	tenantB *domain.Tenant
}

func newTestServer(t *testing.T, limiter ratelimit.Limiter) *testServer {
	t.Helper()
	store := storetest.New()
	authz := security.NewAuthorizationService(nil)
	auditLog := audit.NewLogger(nil)

	h := NewRouter(RouterDeps{
		Tenants:  NewTenantHandler(service.NewTenantService(store, nil), nil),
		Listings: NewListingHandler(service.NewListingService(store, authz, auditLog, nil), nil),
		Profiles: NewProfileHandler(service.NewProfileService(store, authz, security.NewOwnershipPolicy(nil), auditLog, nil), nil),
		Health: NewHealthHandler(map[string]Check{
			"database": func(context.Context) error { return nil },
		}, nil),
		Verifier:       store,
		Connector:      store,
		Authz:          authz,
		Validator:      validation.New(),
		Limiter:        limiter,
		Audit:          auditLog,
		AllowedOrigins: []string{"http://localhost:5173"},
	})
	return &testServer{
		store:   store,
		handler: h,
		tenantA: store.AddTenant("abroker", "aBroker Real Estate"),
		tenantB: store.AddTenant("realstatus", "Real Status Properties"),
	}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rec.Body.String())
	}
	return v
}

func listingBody(tenantID, agentID string) map[string]any {
	return map[string]any{
		"tenant_id": tenantID,
		"agent_id":  agentID,
		"title":     "Downtown Modern Loft",
		"price":     650000,
		"bedrooms":  2,
		"bathrooms": 2,
		"area_sqft": 1200,
		"city":      "Metropolis",
	}
}

func TestMissingCredentialMakesNoDataCalls(t *testing.T) {
	s := newTestServer(t, nil)
	cases := []struct{ method, path string }{
		{http.MethodPost, "/api/listings"},
		{http.MethodPatch, "/api/listings/" + s.tenantA.ID},
		{http.MethodDelete, "/api/listings/" + s.tenantA.ID},
		{http.MethodGet, "/api/profiles/by-tenant/" + s.tenantA.ID},
		{http.MethodPatch, "/api/profiles/" + s.tenantA.ID},
	}
	for _, tc := range cases {
		rec := s.do(t, tc.method, tc.path, "", map[string]any{})
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: status %d, want 401", tc.method, tc.path, rec.Code)
		}
		if body := decode[respond.ErrorBody](t, rec); body.Error != "Unauthorized: Missing or invalid token" {
			t.Errorf("unexpected error %q", body.Error)
		}
	}
	if s.store.DataCalls() != 0 || s.store.Connects != 0 || s.store.Verifies != 0 {
		t.Fatalf("unauthenticated requests reached the store: calls=%d connects=%d verifies=%d",
			s.store.DataCalls(), s.store.Connects, s.store.Verifies)
	}
}

func TestMalformedAuthorizationHeader(t *testing.T) {
	s := newTestServer(t, nil)
	for _, header := range []string{"Basic abc", "Bearer", "Bearer ", "bearer token", "Bearer a b"} {
		req := httptest.NewRequest(http.MethodDelete, "/api/listings/"+s.tenantA.ID, nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()
		s.handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%q: status %d, want 401", header, rec.Code)
		}
	}
	if s.store.Verifies != 0 {
		t.Fatal("identity service should not be called for malformed headers")
	}
}

func TestInvalidTokenAndMissingProfile(t *testing.T) {
	s := newTestServer(t, nil)
	rec := s.do(t, http.MethodDelete, "/api/listings/"+s.tenantA.ID, "forged", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status %d, want 401", rec.Code)
	}
	if body := decode[respond.ErrorBody](t, rec); body.Error != "Unauthorized: Invalid token" {
		t.Fatalf("unexpected error %q", body.Error)
	}

	s.store.AddUser("ghost", "", nil)
	rec = s.do(t, http.MethodDelete, "/api/listings/"+s.tenantA.ID, "ghost", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status %d, want 401", rec.Code)
	}
	if body := decode[respond.ErrorBody](t, rec); body.Error != "Unauthorized: Profile not found" {
		t.Fatalf("unexpected error %q", body.Error)
	}
}

func TestRoleAllowSets(t *testing.T) {
	s := newTestServer(t, nil)
	s.store.AddUser("secretary", domain.RoleSecretary, &s.tenantA.ID)
	_, realtor := s.store.AddUser("realtor", domain.RoleRealtor, &s.tenantA.ID)
	listing := s.store.AddListing(&domain.Listing{TenantID: s.tenantA.ID, AgentID: realtor.ID, Title: "Downtown Modern Loft", Price: 1})

	writes := s.store.Writes
	rec := s.do(t, http.MethodPost, "/api/listings", "secretary", listingBody(s.tenantA.ID, realtor.ID))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("secretary create: status %d, want 403", rec.Code)
	}
	if body := decode[respond.ErrorBody](t, rec); body.Error != "Forbidden: Insufficient permissions" {
		t.Fatalf("unexpected error %q", body.Error)
	}
	if s.store.Writes != writes {
		t.Fatal("denied create reached the store")
	}

	rec = s.do(t, http.MethodDelete, "/api/listings/"+listing.ID, "realtor", nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("realtor delete: status %d, want 403", rec.Code)
	}
	if _, ok := s.store.Listing(listing.ID); !ok {
		t.Fatal("listing deleted despite denial")
	}

	rec = s.do(t, http.MethodGet, "/api/profiles/by-tenant/"+s.tenantA.ID, "realtor", nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("realtor team view: status %d, want 403", rec.Code)
	}
}

func TestValidationRunsAfterAuthorization(t *testing.T) {
	s := newTestServer(t, nil)
	s.store.AddUser("secretary", domain.RoleSecretary, &s.tenantA.ID)
	_, realtor := s.store.AddUser("realtor", domain.RoleRealtor, &s.tenantA.ID)

	bad := listingBody(s.tenantA.ID, realtor.ID)
	bad["price"] = 0

	// an unauthorized role sees 403 even with an invalid body
	if rec := s.do(t, http.MethodPost, "/api/listings", "secretary", bad); rec.Code != http.StatusForbidden {
		t.Fatalf("status %d, want 403", rec.Code)
	}

	writes := s.store.Writes
	rec := s.do(t, http.MethodPost, "/api/listings", "realtor", bad)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", rec.Code)
	}
	body := decode[respond.ErrorBody](t, rec)
	if len(body.Fields) != 1 || body.Fields[0].Field != "price" {
		t.Fatalf("expected price field error, got %+v", body)
	}
	if s.store.Writes != writes {
		t.Fatal("invalid body reached the store")
	}
}

func TestCreateThenFetchByRef(t *testing.T) {
	s := newTestServer(t, nil)
	_, realtor := s.store.AddUser("realtor", domain.RoleRealtor, &s.tenantA.ID)

	rec := s.do(t, http.MethodPost, "/api/listings", "realtor", listingBody(s.tenantA.ID, realtor.ID))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: status %d body %s", rec.Code, rec.Body.String())
	}
	created := decode[domain.Listing](t, rec)
	if created.Status != domain.StatusAvailable || created.RefID == "" {
		t.Fatalf("unexpected listing %+v", created)
	}

	rec = s.do(t, http.MethodGet, "/api/listings/"+created.RefID, "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get by ref: status %d", rec.Code)
	}
	got := decode[domain.Listing](t, rec)
	if got.ID != created.ID || got.Title != "Downtown Modern Loft" || got.Price != 650000 {
		t.Fatalf("round trip mismatch: %+v", got)
	}

	rec = s.do(t, http.MethodGet, "/api/listings/by-tenant/"+s.tenantA.ID, "", nil)
	list := decode[struct {
		Listings []domain.Listing `json:"listings"`
	}](t, rec)
	if len(list.Listings) != 1 {
		t.Fatalf("expected one listing, got %d", len(list.Listings))
	}
}

func TestCrossTenantWritesAreRejected(t *testing.T) {
	s := newTestServer(t, nil)
	_, admin := s.store.AddUser("admin", domain.RoleAdmin, &s.tenantA.ID)
	other := s.store.AddListing(&domain.Listing{TenantID: s.tenantB.ID, Title: "Luxury Beachfront Villa", Price: 2500000})

	if rec := s.do(t, http.MethodPost, "/api/listings", "admin", listingBody(s.tenantB.ID, admin.ID)); rec.Code != http.StatusForbidden {
		t.Fatalf("create in other tenant: status %d, want 403", rec.Code)
	}
	if rec := s.do(t, http.MethodPatch, "/api/listings/"+other.ID, "admin", map[string]any{"price": 1}); rec.Code != http.StatusNotFound {
		t.Fatalf("patch other tenant: status %d, want 404", rec.Code)
	}
	if rec := s.do(t, http.MethodDelete, "/api/listings/"+other.ID, "admin", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("delete other tenant: status %d, want 404", rec.Code)
	}
	if rec := s.do(t, http.MethodGet, "/api/profiles/by-tenant/"+s.tenantB.ID, "admin", nil); rec.Code != http.StatusForbidden {
		t.Fatalf("other tenant team: status %d, want 403", rec.Code)
	}
}

func TestNullTenantCannotWrite(t *testing.T) {
	s := newTestServer(t, nil)
	_, p := s.store.AddUser("unassigned", domain.RoleRealtor, nil)

	rec := s.do(t, http.MethodPost, "/api/listings", "unassigned", listingBody(s.tenantA.ID, p.ID))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status %d, want 403", rec.Code)
	}
	if s.store.Writes != 0 {
		t.Fatal("write reached the store")
	}
}

func TestUpdateAndDeleteListing(t *testing.T) {
	s := newTestServer(t, nil)
	s.store.AddUser("manager", domain.RoleManager, &s.tenantA.ID)
	l := s.store.AddListing(&domain.Listing{TenantID: s.tenantA.ID, Title: "Downtown Modern Loft", Price: 650000})

	rec := s.do(t, http.MethodPatch, "/api/listings/"+l.ID, "manager", map[string]any{"status": "sold"})
	if rec.Code != http.StatusOK {
		t.Fatalf("patch: status %d body %s", rec.Code, rec.Body.String())
	}
	if got := decode[domain.Listing](t, rec); got.Status != domain.StatusSold || got.Price != 650000 {
		t.Fatalf("unexpected listing %+v", got)
	}

	rec = s.do(t, http.MethodPatch, "/api/listings/"+l.ID, "manager", map[string]any{"title": "Loft"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("short title: status %d, want 400", rec.Code)
	}

	rec = s.do(t, http.MethodDelete, "/api/listings/"+l.ID, "manager", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: status %d", rec.Code)
	}
	if body := decode[map[string]string](t, rec); body["message"] != "Listing deleted successfully" {
		t.Fatalf("unexpected body %v", body)
	}
	if rec := s.do(t, http.MethodGet, "/api/listings/"+l.RefID, "", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("deleted listing still served: %d", rec.Code)
	}
}

func TestProfileUpdateOwnership(t *testing.T) {
	s := newTestServer(t, nil)
	s.store.AddUser("admin", domain.RoleAdmin, &s.tenantA.ID, "admin")
	s.store.AddUser("manager", domain.RoleManager, &s.tenantA.ID)
	realtor, _ := s.store.AddUser("realtor", domain.RoleRealtor, &s.tenantA.ID)

	rec := s.do(t, http.MethodPatch, "/api/profiles/"+realtor.ID, "admin", map[string]any{"full_name": "Rick Realtor"})
	if rec.Code != http.StatusOK {
		t.Fatalf("admin update: status %d body %s", rec.Code, rec.Body.String())
	}

	rec = s.do(t, http.MethodPatch, "/api/profiles/"+realtor.ID, "manager", map[string]any{"full_name": "Nope"})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("manager update of another: status %d, want 403", rec.Code)
	}

	rec = s.do(t, http.MethodPatch, "/api/profiles/"+realtor.ID, "realtor", map[string]any{"username": "rick"})
	if rec.Code != http.StatusOK {
		t.Fatalf("self update: status %d", rec.Code)
	}
	if got := decode[domain.Profile](t, rec); got.Username == nil || *got.Username != "rick" {
		t.Fatalf("unexpected profile %+v", got)
	}
}

func TestPublicRoutes(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, http.MethodGet, "/api/tenants", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("tenants: status %d", rec.Code)
	}
	if tenants := decode[[]domain.Tenant](t, rec); len(tenants) != 2 {
		t.Fatalf("expected 2 tenants, got %d", len(tenants))
	}

	rec = s.do(t, http.MethodGet, "/api/tenants/abroker", "", nil)
	if got := decode[domain.Tenant](t, rec); got.ID != s.tenantA.ID {
		t.Fatalf("unexpected tenant %+v", got)
	}

	rec = s.do(t, http.MethodGet, "/api/tenants/nowhere", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing tenant: status %d", rec.Code)
	}
	if body := decode[respond.ErrorBody](t, rec); body.Error != "Tenant not found" {
		t.Fatalf("unexpected error %q", body.Error)
	}

	if rec := s.do(t, http.MethodGet, "/api/listings/by-tenant/abroker", "", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("non-uuid tenant: status %d, want 400", rec.Code)
	}
	if s.store.Verifies != 0 {
		t.Fatal("public routes must not verify identities")
	}
}

func TestUpstreamFailureIsSurfaced(t *testing.T) {
	s := newTestServer(t, nil)
	s.store.Fail = errors.New("connection reset")

	rec := s.do(t, http.MethodGet, "/api/tenants", "", nil)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status %d, want 500", rec.Code)
	}
	if body := decode[respond.ErrorBody](t, rec); body.Error != "Failed to fetch: connection reset" {
		t.Fatalf("unexpected error %q", body.Error)
	}
}

func TestRateLimit(t *testing.T) {
	limiter := ratelimit.NewMemoryLimiter(2, time.Minute)
	defer limiter.Stop()
	s := newTestServer(t, limiter)
	s.store.AddUser("manager", domain.RoleManager, &s.tenantA.ID)

	path := "/api/profiles/by-tenant/" + s.tenantA.ID
	for i := 0; i < 2; i++ {
		if rec := s.do(t, http.MethodGet, path, "manager", nil); rec.Code != http.StatusOK {
			t.Fatalf("request %d: status %d", i, rec.Code)
		}
	}
	rec := s.do(t, http.MethodGet, path, "manager", nil)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status %d, want 429", rec.Code)
	}

	// public reads are not limited
	if rec := s.do(t, http.MethodGet, "/api/tenants", "", nil); rec.Code != http.StatusOK {
		t.Fatalf("public route limited: %d", rec.Code)
	}
}

func TestContentTypeAndCORS(t *testing.T) {
	s := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/listings", bytes.NewBufferString(`{"title":"x"}`))
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("status %d, want 415", rec.Code)
	}

	req = httptest.NewRequest(http.MethodOptions, "/api/listings/x", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "PATCH")
	rec = httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("preflight status %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Fatalf("unexpected allow-origin %q", got)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatal("expected request id header")
	}
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t, nil)
	if rec := s.do(t, http.MethodGet, "/healthz", "", nil); rec.Code != http.StatusOK {
		t.Fatalf("healthz: %d", rec.Code)
	}
	rec := s.do(t, http.MethodGet, "/readyz", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("readyz: %d", rec.Code)
	}

	h := NewHealthHandler(map[string]Check{
		"database": func(context.Context) error { return nil },
		"redis":    func(context.Context) error { return errors.New("refused") },
	}, nil)
	rec = httptest.NewRecorder()
	h.Ready(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status %d, want 503", rec.Code)
	}
	body := decode[ReadinessResponse](t, rec)
	if body.Checks["database"] != "ok" || body.Checks["redis"] != "error: refused" {
		t.Fatalf("unexpected checks %v", body.Checks)
	}
}
