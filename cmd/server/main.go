package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/aryan0dhankhar/realty/internal/domain"
	"github.com/aryan0dhankhar/realty/internal/handler"
	"github.com/aryan0dhankhar/realty/internal/infrastructure/logger"
	"github.com/aryan0dhankhar/realty/internal/infrastructure/redis"
	"github.com/aryan0dhankhar/realty/internal/observability/tracing"
	"github.com/aryan0dhankhar/realty/internal/repository"
	"github.com/aryan0dhankhar/realty/internal/security"
	"github.com/aryan0dhankhar/realty/internal/security/audit"
	"github.com/aryan0dhankhar/realty/internal/security/auth"
	"github.com/aryan0dhankhar/realty/internal/security/ratelimit"
	"github.com/aryan0dhankhar/realty/internal/service"
	"github.com/aryan0dhankhar/realty/internal/validation"
	"github.com/aryan0dhankhar/realty/pkg/config"
	"github.com/aryan0dhankhar/realty/pkg/database"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. Initialize structured logger
	log := logger.NewLogger(cfg.LogLevel)
	slog.SetDefault(log)
	log.Info("starting realty API", slog.String("environment", cfg.Environment))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Tracing
	shutdownTracing, err := tracing.Init(ctx, log, cfg.OTLPEndpoint, "realty", cfg.Environment)
	if err != nil {
		log.Error("failed to initialize tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 4. Database
	pool, err := database.NewConnectionPool(ctx, &database.Config{
		URL:          cfg.DatabaseURL,
		MaxOpenConns: cfg.DBMaxOpenConns,
		MaxIdleConns: cfg.DBMaxIdleConns,
	}, log)
	if err != nil {
		log.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	checks := map[string]handler.Check{"database": pool.Health}

	// 5. Rate limiter: shared through Redis when configured
	var limiter ratelimit.Limiter
	if cfg.RedisURL != "" {
		redisClient, err := redis.NewClient(ctx, cfg.RedisURL, log)
		if err != nil {
			log.Error("failed to connect to Redis", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer redisClient.Close()
		limiter = ratelimit.NewRedisLimiter(redisClient, cfg.RateLimitRequests, cfg.RateWindow())
		checks["redis"] = redisClient.Ping
	} else {
		memLimiter := ratelimit.NewMemoryLimiter(cfg.RateLimitRequests, cfg.RateWindow())
		defer memLimiter.Stop()
		limiter = memLimiter
	}

	// 6. Identity verification
	var verifier domain.IdentityVerifier
	switch cfg.IdentityMode {
	case config.IdentityModeRemote:
		verifier = auth.NewRemoteVerifier(cfg.SupabaseURL, cfg.SupabaseAnonKey, log)
	default:
		verifier = auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer)
	}

	// 7. Store collaborators
	reader := repository.NewPostgresReader(pool.GetDB(), log)
	connector := repository.NewPostgresConnector(pool.GetDB(), verifier, log)

	// 8. Security components and services
	authz := security.NewAuthorizationService(log)
	ownership := security.NewOwnershipPolicy(log)
	auditLogger := audit.NewLogger(log)

	tenantService := service.NewTenantService(reader, log)
	listingService := service.NewListingService(reader, authz, auditLogger, log)
	profileService := service.NewProfileService(reader, authz, ownership, auditLogger, log)

	// 9. HTTP routes
	router := handler.NewRouter(handler.RouterDeps{
		Tenants:        handler.NewTenantHandler(tenantService, log),
		Listings:       handler.NewListingHandler(listingService, log),
		Profiles:       handler.NewProfileHandler(profileService, log),
		Health:         handler.NewHealthHandler(checks, log),
		Verifier:       verifier,
		Connector:      connector,
		Authz:          authz,
		Validator:      validation.New(),
		Limiter:        limiter,
		Audit:          auditLogger,
		AllowedOrigins: cfg.AllowedOrigins(),
		Logger:         log,
	})

	// 10. Start HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      otelhttp.NewHandler(router, "realty"),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info("server starting",
		slog.Int("port", cfg.ServerPort),
		slog.String("identity_mode", cfg.IdentityMode),
		slog.Int("rate_limit", cfg.RateLimitRequests),
		slog.String("rate_limit_window", cfg.RateWindow().String()),
		slog.Bool("redis", cfg.RedisURL != ""),
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", slog.String("error", err.Error()))
			sigChan <- syscall.SIGTERM
		}
	}()

	<-sigChan
	log.Info("shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", slog.String("error", err.Error()))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Warn("tracing shutdown error", slog.String("error", err.Error()))
	}
	log.Info("server stopped")
}
