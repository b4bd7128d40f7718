package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/aryan0dhankhar/realty/internal/infrastructure/logger"
)

type Logger struct {
	logger *slog.Logger
}

func NewLogger(l *slog.Logger) *Logger {
	if l == nil {
		l = slog.Default()
	}
	return &Logger{logger: l.With(slog.String("component", "audit"))}
}

// LogAction writes one audit record. A nil Logger discards it.
func (al *Logger) LogAction(ctx context.Context, tenantID, userID, action, resource, resourceID, status, details string) {
	if al == nil {
		return
	}
	al.logger.Info("audit",
		slog.String("action", action),
		slog.String("resource", resource),
		slog.String("resource_id", resourceID),
		slog.String("tenant_id", tenantID),
		slog.String("user_id", userID),
		slog.String("status", status),
		slog.String("details", details),
		slog.String("request_id", logger.RequestID(ctx)),
		slog.Time("timestamp", time.Now()),
	)
}

// LogMutation records a completed write to a listing or profile
func (al *Logger) LogMutation(ctx context.Context, tenantID, userID, action, resource, resourceID string) {
	al.LogAction(ctx, tenantID, userID, action, resource, resourceID, "success", "")
}

// LogDenied records a request stopped by the guard pipeline
func (al *Logger) LogDenied(ctx context.Context, tenantID, userID, stage, reason string) {
	al.LogAction(ctx, tenantID, userID, "access_denied", "api", "", "denied", stage+": "+reason)
}
