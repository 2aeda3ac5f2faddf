package sharedsecret

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"filedrop/internal/auth"
	"filedrop/internal/config"
	"filedrop/internal/domain"
	"filedrop/internal/port"
)

var allowedMethods = []string{
	jwt.SigningMethodHS256.Alg(),
	jwt.SigningMethodHS384.Alg(),
	jwt.SigningMethodHS512.Alg(),
}

// Verifier validates HMAC-signed identity tokens using a secret shared with
// the auth service.
type Verifier struct {
	secret []byte
	opts   []jwt.ParserOption
}

// NewVerifier creates a new shared-secret token verifier.
func NewVerifier(cfg config.AuthConfig) *Verifier {
	return &Verifier{
		secret: []byte(cfg.Secret),
		opts:   auth.ParserOptions(allowedMethods, cfg.Issuer, cfg.Audience, cfg.Leeway),
	}
}

var _ port.TokenVerifier = (*Verifier)(nil)

func (v *Verifier) Verify(_ context.Context, tokenString string) (*port.Identity, error) {
	claims := &auth.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, v.opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	return auth.IdentityFromToken(token, claims)
}
