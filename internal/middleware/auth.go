// Package middleware contains HTTP middleware for the Wicket API.
//
// Middleware functions follow the standard Go pattern of wrapping
// http.Handler and are composed with Stack.
package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mchandler/wicket/internal/auth"
	"github.com/mchandler/wicket/internal/handler"
	"github.com/mchandler/wicket/internal/provider"
	"github.com/mchandler/wicket/internal/session"
)

// AuthMiddleware resolves session cookies through the auth provider.
type AuthMiddleware struct {
	provider provider.Client
	logger   *slog.Logger
	isSecure bool
}

// NewAuthMiddleware creates a new AuthMiddleware instance.
func NewAuthMiddleware(p provider.Client, logger *slog.Logger, isSecure bool) *AuthMiddleware {
	return &AuthMiddleware{
		provider: p,
		logger:   logger,
		isSecure: isSecure,
	}
}

// WithUser attempts to load the user for the request's session cookie.
//
// A missing cookie is not an error; the request continues without a user.
// An invalid or expired token clears the cookie so the client stops
// sending it.
func (m *AuthMiddleware) WithUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(session.CookieName)
		if err != nil || cookie.Value == "" {
			next.ServeHTTP(w, r)
			return
		}

		user, err := m.provider.UserFromToken(r.Context(), cookie.Value)
		if err != nil {
			session.ClearCookie(w, m.isSecure)
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), user)))
	})
}

// RequireUser rejects requests that have no authenticated user in context.
// Must run after WithUser. The API is JSON-only, so the response is a 401
// rather than a login redirect.
func (m *AuthMiddleware) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth.UserFrom(r.Context()) == nil {
			handler.UnauthorizedResponse(w, r, m.logger)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Stack composes multiple middleware functions into a single middleware.
// The first middleware in the list is the outermost.
func Stack(middlewares ...func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(final http.Handler) http.Handler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			final = middlewares[i](final)
		}
		return final
	}
}
