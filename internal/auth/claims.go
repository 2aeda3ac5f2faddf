// Package auth verifies identity tokens issued by the external auth service.
// Token issuance, login and user management live outside this service.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"filedrop/internal/domain"
	"filedrop/internal/port"
)

// Claims is the subset of identity token claims this service relies on.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
}

// ParserOptions builds the common jwt parser options: allowed methods,
// mandatory expiry, clock leeway and optional issuer/audience checks.
func ParserOptions(methods []string, issuer, audience string, leeway time.Duration) []jwt.ParserOption {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods(methods),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(leeway),
	}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	if audience != "" {
		opts = append(opts, jwt.WithAudience(audience))
	}
	return opts
}

// IdentityFromToken turns a parsed token into the caller identity.
// The sub claim is the identity and must be present.
func IdentityFromToken(token *jwt.Token, claims *Claims) (*port.Identity, error) {
	if token == nil || !token.Valid {
		return nil, domain.ErrUnauthorized
	}
	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return nil, fmt.Errorf("%w: token has no subject", domain.ErrUnauthorized)
	}
	return &port.Identity{Subject: subject, Email: claims.Email}, nil
}
