package middleware

import (
	"context"

	"github.com/aryan0dhankhar/realty/internal/domain"
)

type principalKey struct{}
type bodyKey struct{}

// WithPrincipal attaches the authenticated principal to ctx
func WithPrincipal(ctx context.Context, p *domain.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the principal set by Authenticate, or nil
func PrincipalFromContext(ctx context.Context) *domain.Principal {
	if p, ok := ctx.Value(principalKey{}).(*domain.Principal); ok {
		return p
	}
	return nil
}

// BodyFrom returns the body decoded by ValidateBody
func BodyFrom[T any](ctx context.Context) (*T, bool) {
	v, ok := ctx.Value(bodyKey{}).(*T)
	return v, ok
}

func contextWithBody[T any](ctx context.Context, body *T) context.Context {
	return context.WithValue(ctx, bodyKey{}, body)
}
