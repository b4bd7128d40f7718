package security

import (
	"log/slog"
	"strings"

	"github.com/aryan0dhankhar/realty/internal/domain"
)

// RoleSet is the literal allow-set of one operation. Membership is exact:
// no role implies another.
type RoleSet struct {
	roles []domain.Role
}

// Roles builds an allow-set from the listed roles
func Roles(roles ...domain.Role) RoleSet {
	out := make([]domain.Role, 0, len(roles))
	for _, r := range roles {
		if !containsRole(out, r) {
			out = append(out, r)
		}
	}
	return RoleSet{roles: out}
}

// Allows reports whether role is a member of the set
func (s RoleSet) Allows(role domain.Role) bool {
	return containsRole(s.roles, role)
}

// Members returns a copy of the set's roles
func (s RoleSet) Members() []domain.Role {
	return append([]domain.Role(nil), s.roles...)
}

func (s RoleSet) String() string {
	names := make([]string, len(s.roles))
	for i, r := range s.roles {
		names[i] = string(r)
	}
	return strings.Join(names, ",")
}

func containsRole(roles []domain.Role, role domain.Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// Per-route allow-sets
var (
	ListingCreators = Roles(domain.RoleAdmin, domain.RoleManager, domain.RoleRealtor)
	ListingEditors  = Roles(domain.RoleAdmin, domain.RoleManager, domain.RoleRealtor)
	ListingDeleters = Roles(domain.RoleAdmin, domain.RoleManager)
	TeamViewers     = Roles(domain.RoleAdmin, domain.RoleManager)
)

// AuthorizationService handles authorization checks
type AuthorizationService struct {
	logger *slog.Logger
}

// NewAuthorizationService creates a new authorization service
func NewAuthorizationService(logger *slog.Logger) *AuthorizationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthorizationService{
		logger: logger,
	}
}

// Authorize checks the profile's role against the operation's allow-set
func (as *AuthorizationService) Authorize(profile *domain.Profile, allowed RoleSet) error {
	if profile == nil {
		as.logger.Warn("authorization without profile")
		return domain.Forbidden("Forbidden: Insufficient permissions")
	}
	if !allowed.Allows(profile.Role) {
		as.logger.Warn("permission denied",
			slog.String("user_id", profile.ID),
			slog.String("role", string(profile.Role)),
			slog.String("allowed", allowed.String()),
		)
		return domain.Forbidden("Forbidden: Insufficient permissions")
	}
	return nil
}

// ValidateTenantAccess checks that the profile belongs to requestedTenantID.
// A profile without a tenant never matches.
func (as *AuthorizationService) ValidateTenantAccess(profile *domain.Profile, requestedTenantID string) error {
	userTenantID, ok := profile.Tenant()
	if !ok {
		as.logger.Warn("tenant access denied: profile has no tenant",
			slog.String("requested_tenant", requestedTenantID),
		)
		return domain.Forbidden("Forbidden: profile is not assigned to an agency")
	}
	if userTenantID != requestedTenantID {
		as.logger.Warn("tenant access denied",
			slog.String("user_tenant", userTenantID),
			slog.String("requested_tenant", requestedTenantID),
		)
		return domain.Forbidden("Forbidden: access to another agency denied")
	}
	return nil
}
