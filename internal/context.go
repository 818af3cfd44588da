package internal

import (
	"context"
	"time"
)

// AuthUser is the authenticated identity attached to a request by the auth
// middleware. Role is one of the closed role tags from internal/roles.
type AuthUser struct {
	ID         int64
	Email      string
	Role       string
	EmployeeID *int64
}

type ctxKey string

const contextUserKey ctxKey = "auth_user"

func UserFromContext(ctx context.Context) (*AuthUser, bool) {
	if ctx == nil {
		return nil, false
	}
	user, ok := ctx.Value(contextUserKey).(*AuthUser)
	return user, ok
}

func ContextWithUser(ctx context.Context, user *AuthUser) context.Context {
	return context.WithValue(ctx, contextUserKey, user)
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if
// duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}
