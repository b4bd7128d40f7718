package service

import (
	"github.com/google/uuid"

	"github.com/aryan0dhankhar/realty/internal/domain"
)

// requireUUID rejects path parameters that cannot name a row
func requireUUID(field, value string) error {
	if _, err := uuid.Parse(value); err != nil {
		return domain.Invalid(domain.FieldError{Field: field, Message: "must be a valid UUID"})
	}
	return nil
}

// callerTenant returns the principal's tenant, or Forbidden when it has none
func callerTenant(p *domain.Principal) (string, error) {
	if p == nil || p.Profile == nil {
		return "", domain.Forbidden("Forbidden: Insufficient permissions")
	}
	tenantID, ok := p.Profile.Tenant()
	if !ok {
		return "", domain.Forbidden("Forbidden: profile is not assigned to an agency")
	}
	return tenantID, nil
}
