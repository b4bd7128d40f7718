package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/aryan0dhankhar/realty/internal/domain"
	"github.com/aryan0dhankhar/realty/internal/observability/metrics"
	"github.com/aryan0dhankhar/realty/internal/respond"
	"github.com/aryan0dhankhar/realty/internal/security"
	"github.com/aryan0dhankhar/realty/internal/security/audit"
	"github.com/aryan0dhankhar/realty/internal/security/auth"
	"github.com/aryan0dhankhar/realty/internal/security/ratelimit"
	"github.com/aryan0dhankhar/realty/internal/validation"
)

// Guard either returns the request to continue with or an error that ends it
type Guard func(r *http.Request) (*http.Request, error)

// Chain runs guards in order before h. The first failing guard's error is
// written as the response and nothing after it runs.
func Chain(h http.Handler, guards ...Guard) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for _, g := range guards {
			next, err := g(r)
			if err != nil {
				respond.Error(w, err)
				return
			}
			r = next
		}
		h.ServeHTTP(w, r)
	})
}

// Authenticate verifies the bearer token, opens a client scoped to it and
// loads the caller's profile through that client.
func Authenticate(verifier domain.IdentityVerifier, connector domain.Connector, auditLog *audit.Logger) Guard {
	return func(r *http.Request) (*http.Request, error) {
		ctx := r.Context()

		token, err := auth.ExtractToken(r.Header.Get("Authorization"))
		if err != nil {
			metrics.ObserveAuthDecision("authenticate", "missing_credential")
			auditLog.LogDenied(ctx, "", "", "authenticate", "missing credential")
			return nil, domain.Unauthorized("Unauthorized: Missing or invalid token")
		}

		identity, err := verifier.Verify(ctx, token)
		if err != nil || identity == nil {
			metrics.ObserveAuthDecision("authenticate", "invalid_credential")
			reason := "no identity"
			if err != nil {
				reason = err.Error()
			}
			auditLog.LogDenied(ctx, "", "", "authenticate", reason)
			return nil, domain.Unauthorized("Unauthorized: Invalid token")
		}

		client := connector.Connect(token, identity)
		profile, err := client.GetProfile(ctx, identity.ID)
		if err != nil || profile == nil {
			metrics.ObserveAuthDecision("authenticate", "profile_not_found")
			reason := "no profile"
			if err != nil {
				reason = err.Error()
			}
			auditLog.LogDenied(ctx, "", identity.ID, "authenticate", reason)
			return nil, domain.Unauthorized("Unauthorized: Profile not found")
		}

		metrics.ObserveAuthDecision("authenticate", "allowed")
		p := &domain.Principal{Client: client, Identity: identity, Profile: profile}
		return r.WithContext(WithPrincipal(ctx, p)), nil
	}
}

// RequireRoles admits callers whose profile role is in allowed
func RequireRoles(authz *security.AuthorizationService, allowed security.RoleSet, auditLog *audit.Logger) Guard {
	return func(r *http.Request) (*http.Request, error) {
		var profile *domain.Profile
		if p := PrincipalFromContext(r.Context()); p != nil {
			profile = p.Profile
		}
		if err := authz.Authorize(profile, allowed); err != nil {
			metrics.ObserveAuthDecision("authorize", "denied")
			tenantID, userID := "", ""
			if profile != nil {
				tenantID, _ = profile.Tenant()
				userID = profile.ID
			}
			auditLog.LogDenied(r.Context(), tenantID, userID, "authorize", "role not in "+allowed.String())
			return nil, err
		}
		metrics.ObserveAuthDecision("authorize", "allowed")
		return r, nil
	}
}

// RateLimit charges the request to the caller's tenant, or to the caller
// when the profile has no tenant. Limiter failures let the request through.
func RateLimit(limiter ratelimit.Limiter, log *slog.Logger) Guard {
	if log == nil {
		log = slog.Default()
	}
	return func(r *http.Request) (*http.Request, error) {
		p := PrincipalFromContext(r.Context())
		if p == nil || p.Profile == nil {
			return r, nil
		}
		key, ok := p.Profile.Tenant()
		if ok {
			key = "tenant:" + key
		} else {
			key = "user:" + p.Profile.ID
		}

		allowed, err := limiter.Allow(r.Context(), key)
		if err != nil {
			log.Warn("rate limiter unavailable", slog.String("key", key), slog.String("error", err.Error()))
			return r, nil
		}
		if !allowed {
			metrics.ObserveAuthDecision("rate_limit", "denied")
			return nil, domain.RateLimited()
		}
		return r, nil
	}
}

// ValidateBody decodes the body into a T and checks its validation tags.
// The decoded value is available to the handler through BodyFrom.
func ValidateBody[T any](v *validation.Validator) Guard {
	return func(r *http.Request) (*http.Request, error) {
		body := new(T)
		if err := v.Decode(r.Body, body); err != nil {
			metrics.ObserveAuthDecision("validate", "rejected")
			return nil, err
		}
		return r.WithContext(contextWithBody(r.Context(), body)), nil
	}
}

// ValidateJSONContentType rejects bodies that are not declared as JSON
func ValidateJSONContentType(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost && r.Method != http.MethodPut && r.Method != http.MethodPatch {
				next.ServeHTTP(w, r)
				return
			}
			if r.ContentLength == 0 {
				next.ServeHTTP(w, r)
				return
			}

			contentType := r.Header.Get("Content-Type")
			if !strings.Contains(contentType, "application/json") {
				log.Warn("invalid content type",
					slog.String("path", r.URL.Path),
					slog.String("content_type", contentType),
					slog.String("method", r.Method),
				)
				respond.JSON(w, http.StatusUnsupportedMediaType, respond.ErrorBody{Error: "Content-Type must be application/json"})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
