package auth

import "context"

type contextKey struct{}

// WithUserID returns a context carrying the authenticated user
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, contextKey{}, userID)
}

// UserID returns the authenticated user of ctx
func UserID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(contextKey{}).(int64)
	return id, ok && id != 0
}

// SessionCookie is the name of the session cookie set at login
const SessionCookie = "SESSION"
