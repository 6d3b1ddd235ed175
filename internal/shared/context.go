package shared

import (
	"context"

	"github.com/meridian-web/console-core/internal/session"
)

type sessionContextKey struct{}

// ContextWithSession stores the authenticated session in context.
func ContextWithSession(ctx context.Context, sess session.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, sess)
}

// SessionFromContext extracts the session from context. The second
// return value is false for anonymous requests.
func SessionFromContext(ctx context.Context) (session.Session, bool) {
	sess, ok := ctx.Value(sessionContextKey{}).(session.Session)
	return sess, ok
}
