package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/aryan0dhankhar/realty/internal/domain"
)

// RemoteVerifier exchanges tokens at the identity service's user endpoint
type RemoteVerifier struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewRemoteVerifier creates a verifier for the identity service at baseURL
func NewRemoteVerifier(baseURL, apiKey string, logger *slog.Logger) *RemoteVerifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &RemoteVerifier{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   10 * time.Second,
		},
		logger: logger,
	}
}

type remoteUser struct {
	ID          string      `json:"id"`
	Email       string      `json:"email"`
	AppMetadata AppMetadata `json:"app_metadata"`
}

// Verify implements domain.IdentityVerifier with a single GET /auth/v1/user call
func (v *RemoteVerifier) Verify(ctx context.Context, token string) (*domain.Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, fmt.Errorf("build identity request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("apikey", v.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		v.logger.Debug("identity service rejected token",
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(body)),
		)
		return nil, fmt.Errorf("identity service returned %d", resp.StatusCode)
	}

	var user remoteUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("decode identity response: %w", err)
	}
	if user.ID == "" {
		return nil, fmt.Errorf("identity service returned no user")
	}

	return &domain.Identity{
		ID:    user.ID,
		Email: user.Email,
		Roles: user.AppMetadata.roles(),
	}, nil
}
