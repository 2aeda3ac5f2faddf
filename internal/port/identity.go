package port

import "context"

// Identity is the verified caller attached to a request by the identity gate.
type Identity struct {
	Subject string
	Email   string
}

// TokenVerifier validates bearer tokens issued by the external auth service.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}
