package handler

import (
	"log/slog"
	"net/http"

	"github.com/aryan0dhankhar/realty/internal/domain"
	"github.com/aryan0dhankhar/realty/internal/infrastructure/logger"
	"github.com/aryan0dhankhar/realty/internal/respond"
	"github.com/aryan0dhankhar/realty/internal/security/middleware"
)

// writeError logs store and identity failures and writes err as the response
func writeError(log *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	if domain.KindOf(err) == domain.KindUpstream {
		log.Error("request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("request_id", logger.RequestID(r.Context())),
			slog.String("error", err.Error()),
		)
	}
	respond.Error(w, err)
}

// principal returns the authenticated caller set by the guard pipeline
func principal(r *http.Request) (*domain.Principal, error) {
	p := middleware.PrincipalFromContext(r.Context())
	if p == nil || p.Client == nil {
		return nil, domain.Unauthorized("Unauthorized: Missing or invalid token")
	}
	return p, nil
}
