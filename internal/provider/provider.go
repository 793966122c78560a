// Package provider defines the client interface for the hosted
// authentication provider.
//
// The provider owns credential storage, session tokens, and password-reset
// email delivery. Wicket treats it as an opaque service: every backend
// route is a single call through this interface, and implementations map
// provider responses onto domain error codes so handlers can pick HTTP
// statuses without knowing which provider is wired in.
package provider

import (
	"context"

	"github.com/mchandler/wicket/internal/domain"
)

// Client is the interface to the authentication provider.
//
// Implementations return domain errors with these codes:
//   - EUNAUTHORIZED: credentials or session token rejected
//   - ECONFLICT: account already exists (SignUp)
//   - EINVALID: provider rejected the input (malformed email, weak password)
//   - EINTERNAL: transport failure or provider-side error
type Client interface {
	// SignIn authenticates the credentials and returns a new session.
	SignIn(ctx context.Context, email, password string) (*domain.Session, error)

	// SignUp creates an account and returns a session for it.
	SignUp(ctx context.Context, email, password string) (*domain.Session, error)

	// SignOut invalidates the session token.
	SignOut(ctx context.Context, token string) error

	// RequestPasswordReset asks the provider to email a reset link.
	// Implementations return nil whether or not the email is registered;
	// account enumeration is prevented at this boundary.
	RequestPasswordReset(ctx context.Context, email string) error

	// UserFromToken resolves a session token to its user.
	UserFromToken(ctx context.Context, token string) (*domain.User, error)
}
