// Package auth provides request-context helpers for the authenticated user.
//
// It exists as its own package so that both handler and middleware can read
// the user from the context without importing each other.
package auth

import (
	"context"

	"github.com/mchandler/wicket/internal/domain"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const userContextKey contextKey = "user"

// WithUser returns a copy of ctx carrying the authenticated user.
func WithUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFrom retrieves the authenticated user from the request context.
// Returns nil if no valid session was resolved for this request.
func UserFrom(ctx context.Context) *domain.User {
	user, ok := ctx.Value(userContextKey).(*domain.User)
	if !ok {
		return nil
	}
	return user
}
