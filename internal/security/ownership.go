package security

import (
	"log/slog"

	"github.com/aryan0dhankhar/realty/internal/domain"
)

// privilegedRole is the identity-level role that may edit any profile
const privilegedRole = "admin"

// OwnershipPolicy decides self-or-privileged access to a user's profile
type OwnershipPolicy struct {
	logger *slog.Logger
}

// NewOwnershipPolicy creates a new ownership policy
func NewOwnershipPolicy(logger *slog.Logger) *OwnershipPolicy {
	if logger == nil {
		logger = slog.Default()
	}
	return &OwnershipPolicy{logger: logger}
}

// CanUpdateProfile allows the caller to update their own profile, or any profile
// when the identity-level role metadata lists admin. The profile-table role is
// intentionally not consulted here; the two role sources are not reconciled.
func (p *OwnershipPolicy) CanUpdateProfile(caller *domain.Identity, targetUserID string) error {
	if caller == nil || caller.ID == "" {
		return domain.Forbidden("Forbidden: Insufficient permissions")
	}
	if caller.ID == targetUserID {
		return nil
	}
	if caller.HasRole(privilegedRole) {
		return nil
	}
	p.logger.Warn("profile update denied",
		slog.String("user_id", caller.ID),
		slog.String("target_user_id", targetUserID),
	)
	return domain.Forbidden("Forbidden: You can only update your own profile")
}
