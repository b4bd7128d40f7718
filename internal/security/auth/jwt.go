package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/aryan0dhankhar/realty/internal/domain"
)

// Audience is the aud claim carried by end-user access tokens
const Audience = "authenticated"

// AppMetadata is the identity-level metadata set by the identity service.
// Only the identity service writes it, so it is trusted for role checks.
type AppMetadata struct {
	Provider string   `json:"provider,omitempty"`
	Role     string   `json:"role,omitempty"`
	Roles    []string `json:"roles,omitempty"`
}

// Claims are the access token claims issued by the identity service
type Claims struct {
	Email        string         `json:"email"`
	Role         string         `json:"role"`
	AppMetadata  AppMetadata    `json:"app_metadata"`
	UserMetadata map[string]any `json:"user_metadata,omitempty"`
	jwt.RegisteredClaims
}

// Identity converts verified claims into a domain identity
func (c *Claims) Identity() *domain.Identity {
	return &domain.Identity{
		ID:    c.Subject,
		Email: c.Email,
		Roles: c.AppMetadata.roles(),
	}
}

func (m AppMetadata) roles() []string {
	out := make([]string, 0, len(m.Roles)+1)
	if m.Role != "" {
		out = append(out, m.Role)
	}
	for _, r := range m.Roles {
		if r != "" && r != m.Role {
			out = append(out, r)
		}
	}
	return out
}

// TokenManager verifies HS256 access tokens with the identity service's shared secret.
// It can also mint tokens for local development.
type TokenManager struct {
	secret []byte
	issuer string
}

func NewTokenManager(secret, issuer string) *TokenManager {
	return &TokenManager{secret: []byte(secret), issuer: issuer}
}

// GenerateToken mints an access token for a development identity
func (tm *TokenManager) GenerateToken(userID, email string, roles []string, expiresIn time.Duration) (string, error) {
	if userID == "" {
		return "", errors.New("user id required")
	}
	if len(tm.secret) == 0 {
		return "", errors.New("signing secret not configured")
	}
	now := time.Now()
	meta := AppMetadata{Provider: "email"}
	if len(roles) > 0 {
		meta.Role = roles[0]
		meta.Roles = roles
	}
	claims := Claims{
		Email:       email,
		Role:        Audience,
		AppMetadata: meta,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Audience:  jwt.ClaimStrings{Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
			Issuer:    tm.issuer,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(tm.secret)
}

// ValidateToken parses and verifies a token string
func (tm *TokenManager) ValidateToken(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithAudience(Audience),
	}
	if tm.issuer != "" {
		opts = append(opts, jwt.WithIssuer(tm.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return tm.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("parse token failed: %w", err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}
	return claims, nil
}

// Verify implements domain.IdentityVerifier
func (tm *TokenManager) Verify(_ context.Context, token string) (*domain.Identity, error) {
	claims, err := tm.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	return claims.Identity(), nil
}

// ExtractToken returns the credential of a "Bearer <token>" header value
func ExtractToken(authHeader string) (string, error) {
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", errors.New("invalid authorization header")
	}
	return parts[1], nil
}
