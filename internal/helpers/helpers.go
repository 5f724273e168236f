package helpers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
)

// TokenVerifier checks Supabase access tokens against the project's JWKS.
type TokenVerifier struct {
	jwks *keyfunc.JWKS
}

func NewTokenVerifier(ctx context.Context, supabaseURL string, logger *slog.Logger) (*TokenVerifier, error) {
	if supabaseURL == "" {
		return nil, errors.New("supabase URL is required")
	}
	jwksURL := strings.TrimRight(supabaseURL, "/") + "/auth/v1/.well-known/jwks.json"

	jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{
		Ctx:               ctx,
		RefreshInterval:   time.Hour,
		RefreshTimeout:    10 * time.Second,
		RefreshUnknownKID: true,
		RefreshErrorHandler: func(err error) {
			logger.Warn("JWKS refresh failed", "url", jwksURL, "error", err)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load JWKS from %s: %w", jwksURL, err)
	}
	return &TokenVerifier{jwks: jwks}, nil
}

// Verify parses and validates a token and returns its claims.
func (tv *TokenVerifier) Verify(tokenStr string) (*CustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &CustomClaims{}, tv.jwks.Keyfunc)
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}
	return claims, nil
}

// Close stops the background JWKS refresh.
func (tv *TokenVerifier) Close() {
	if tv != nil && tv.jwks != nil {
		tv.jwks.EndBackground()
	}
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) string {
	const prefix = "bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}

// StringTrim trims whitespace and stray quotes that clients sometimes leave
// around path parameters.
func StringTrim(s string) string {
	return strings.Trim(strings.TrimSpace(s), "\"'")
}
