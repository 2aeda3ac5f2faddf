package jwks

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/MicahParks/jwkset"
	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"

	"filedrop/internal/auth"
	"filedrop/internal/config"
	"filedrop/internal/domain"
	"filedrop/internal/port"
)

var allowedMethods = []string{
	jwt.SigningMethodRS256.Alg(),
	jwt.SigningMethodES256.Alg(),
}

// Verifier validates asymmetric identity tokens against the identity
// provider's JWKS endpoint. Keys are refreshed in the background.
type Verifier struct {
	jwks   keyfunc.Keyfunc
	opts   []jwt.ParserOption
	logger *slog.Logger
}

// NewVerifier creates a verifier backed by a remote JWKS. Startup does not
// fail if the provider is unreachable; verification fails until keys load.
// The refresh goroutine stops when ctx is cancelled.
func NewVerifier(ctx context.Context, cfg config.AuthConfig, logger *slog.Logger) (*Verifier, error) {
	httpClient := &http.Client{Timeout: cfg.JWKSClientTimeout}

	storage, err := jwkset.NewStorageFromHTTP(cfg.JWKSURL, jwkset.HTTPClientStorageOptions{
		Client:                    httpClient,
		Ctx:                       ctx,
		NoErrorReturnFirstHTTPReq: true,
		RefreshInterval:           cfg.JWKSRefreshInterval,
		RefreshErrorHandler: func(_ context.Context, err error) {
			logger.Error("jwks refresh failed",
				slog.String("url", cfg.JWKSURL),
				slog.String("error", err.Error()),
			)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("creating jwks storage: %w", err)
	}

	k, err := keyfunc.New(keyfunc.Options{Ctx: ctx, Storage: storage})
	if err != nil {
		return nil, fmt.Errorf("creating keyfunc: %w", err)
	}
	return NewVerifierWithKeyfunc(k, cfg, logger), nil
}

// NewVerifierWithKeyfunc creates a verifier over an existing key source.
func NewVerifierWithKeyfunc(k keyfunc.Keyfunc, cfg config.AuthConfig, logger *slog.Logger) *Verifier {
	return &Verifier{
		jwks:   k,
		opts:   auth.ParserOptions(allowedMethods, cfg.Issuer, cfg.Audience, cfg.Leeway),
		logger: logger.With(slog.String("component", "jwks_verifier")),
	}
}

var _ port.TokenVerifier = (*Verifier)(nil)

func (v *Verifier) Verify(ctx context.Context, tokenString string) (*port.Identity, error) {
	claims := &auth.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, v.jwks.KeyfuncCtx(ctx), v.opts...)
	if err != nil {
		v.logger.DebugContext(ctx, "token rejected", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	return auth.IdentityFromToken(token, claims)
}
