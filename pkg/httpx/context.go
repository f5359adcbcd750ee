package httpx

import (
	"context"

	"github.com/lecenter/dashboard/pkg/sessionx"
)

type ctxKey string

const CtxKeySession ctxKey = "session"

// ContextWithSession attaches verified session claims to ctx.
func ContextWithSession(ctx context.Context, c sessionx.Claims) context.Context {
	return context.WithValue(ctx, CtxKeySession, c)
}

// SessionFromContext returns the claims attached by the session middleware.
func SessionFromContext(ctx context.Context) (sessionx.Claims, bool) {
	c, ok := ctx.Value(CtxKeySession).(sessionx.Claims)
	return c, ok
}
