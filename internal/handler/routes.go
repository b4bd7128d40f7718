package handler

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aryan0dhankhar/realty/internal/domain"
	"github.com/aryan0dhankhar/realty/internal/observability/metrics"
	"github.com/aryan0dhankhar/realty/internal/security"
	"github.com/aryan0dhankhar/realty/internal/security/audit"
	"github.com/aryan0dhankhar/realty/internal/security/middleware"
	"github.com/aryan0dhankhar/realty/internal/security/ratelimit"
	"github.com/aryan0dhankhar/realty/internal/validation"
)

// RouterDeps are the collaborators the HTTP surface is assembled from
type RouterDeps struct {
	Tenants  *TenantHandler
	Listings *ListingHandler
	Profiles *ProfileHandler
	Health   *HealthHandler

	Verifier  domain.IdentityVerifier
	Connector domain.Connector
	Authz     *security.AuthorizationService
	Validator *validation.Validator
	// Limiter is optional; without it protected routes are not rate limited
	Limiter ratelimit.Limiter
	Audit   *audit.Logger

	AllowedOrigins []string
	Logger         *slog.Logger
}

// NewRouter wires every route. Public reads go straight to their handler;
// protected routes run authenticate, rate limit, authorize and validate in
// that order.
func NewRouter(d RouterDeps) http.Handler {
	log := d.Logger
	if log == nil {
		log = slog.Default()
	}

	authenticate := middleware.Authenticate(d.Verifier, d.Connector, d.Audit)
	protect := func(h http.HandlerFunc, guards ...middleware.Guard) http.Handler {
		chain := []middleware.Guard{authenticate}
		if d.Limiter != nil {
			chain = append(chain, middleware.RateLimit(d.Limiter, log))
		}
		return middleware.Chain(h, append(chain, guards...)...)
	}
	roles := func(allowed security.RoleSet) middleware.Guard {
		return middleware.RequireRoles(d.Authz, allowed, d.Audit)
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", d.Health.Health)
	mux.HandleFunc("GET /readyz", d.Health.Ready)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/tenants", d.Tenants.List)
	mux.HandleFunc("GET /api/tenants/{slug}", d.Tenants.GetBySlug)
	mux.HandleFunc("GET /api/listings/by-tenant/{tenantId}", d.Listings.ListByTenant)
	mux.HandleFunc("GET /api/listings/{refId}", d.Listings.GetByRefID)

	mux.Handle("POST /api/listings", protect(d.Listings.Create,
		roles(security.ListingCreators),
		middleware.ValidateBody[domain.ListingInput](d.Validator),
	))
	mux.Handle("PATCH /api/listings/{id}", protect(d.Listings.Update,
		roles(security.ListingEditors),
		middleware.ValidateBody[domain.ListingPatch](d.Validator),
	))
	mux.Handle("DELETE /api/listings/{id}", protect(d.Listings.Delete,
		roles(security.ListingDeleters),
	))
	mux.Handle("GET /api/profiles/by-tenant/{tenantId}", protect(d.Profiles.ListByTenant,
		roles(security.TeamViewers),
	))
	mux.Handle("PATCH /api/profiles/{userId}", protect(d.Profiles.Update,
		middleware.ValidateBody[domain.ProfilePatch](d.Validator),
	))

	var h http.Handler = mux
	h = middleware.ValidateJSONContentType(log)(h)
	h = middleware.CORS(d.AllowedOrigins)(h)
	h = metrics.HTTPMetricsMiddleware(h)
	h = middleware.AccessLog(log)(h)
	h = middleware.RequestID(h)
	return h
}
