package middleware

import (
	"context"

	"surgsim-platform/backend/internal/user/domain"
)

type contextKey struct{ name string }

var identityKey = contextKey{"identity"}

// Identity is the authenticated principal attached to a request or streaming
// connection. Role is empty on streaming connections, where only the token
// claims are known.
type Identity struct {
	UserID   string
	Username string
	Role     domain.Role
}

// WithIdentity returns a context carrying the authenticated identity.
// Handlers and the session aggregator read it via IdentityFromContext.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromContext returns the identity from ctx and true if set; otherwise
// a zero Identity and false.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	v, ok := ctx.Value(identityKey).(Identity)
	return v, ok
}
