// Package domain contains the core types shared across the application.
//
// Wicket holds no durable state of its own: users and sessions live inside
// the hosted authentication provider, and these types only mirror what the
// provider returns.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is the provider's view of an account.
type User struct {
	ID            uuid.UUID `json:"id"`
	Email         string    `json:"email"`
	EmailVerified bool      `json:"emailVerified"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Session pairs an opaque provider session token with its user.
// The token's format and lifetime are owned by the provider; Wicket only
// relays it as a cookie.
type Session struct {
	Token     string    `json:"token"`
	User      User      `json:"user"`
	ExpiresAt time.Time `json:"expiresAt"`
}
