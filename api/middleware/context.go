package middleware

import (
	"context"

	"github.com/wishlane/wishlane-backend/internal/identity"
)

type contextKey string

const ctxIdentity contextKey = "identity"

// IdentityFromContext returns the actor behind the request. Requests that
// never passed an auth middleware resolve to the anonymous identity.
func IdentityFromContext(ctx context.Context) identity.Identity {
	if ctx == nil {
		return identity.Anonymous{}
	}
	if v, ok := ctx.Value(ctxIdentity).(identity.Identity); ok && v != nil {
		return v
	}
	return identity.Anonymous{}
}

// MemberFromContext returns the authenticated member, if any.
func MemberFromContext(ctx context.Context) (identity.Member, bool) {
	if ctx == nil {
		return identity.Member{}, false
	}
	if m, ok := ctx.Value(ctxIdentity).(identity.Member); ok {
		return m, true
	}
	return identity.Member{}, false
}

// WithIdentity injects the actor into the context for downstream handlers.
func WithIdentity(ctx context.Context, id identity.Identity) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxIdentity, id)
}
