package service

import (
	"context"
	"log/slog"

	"github.com/aryan0dhankhar/realty/internal/domain"
)

// TenantService serves the public agency directory
type TenantService struct {
	reader domain.Reader
	logger *slog.Logger
}

// NewTenantService creates a new tenant service
func NewTenantService(reader domain.Reader, logger *slog.Logger) *TenantService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TenantService{reader: reader, logger: logger}
}

// List returns every agency
func (s *TenantService) List(ctx context.Context) ([]*domain.Tenant, error) {
	return s.reader.ListTenants(ctx)
}

// GetBySlug returns one agency
func (s *TenantService) GetBySlug(ctx context.Context, slug string) (*domain.Tenant, error) {
	return s.reader.GetTenantBySlug(ctx, slug)
}
