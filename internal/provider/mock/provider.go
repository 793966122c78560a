// Package mock provides an in-memory provider.Client for development and
// tests. Accounts and sessions live only as long as the process.
package mock

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mchandler/wicket/internal/domain"
	"github.com/mchandler/wicket/internal/provider"
)

// SessionDuration matches the hosted provider's default session lifetime.
const SessionDuration = 7 * 24 * time.Hour

type account struct {
	user         domain.User
	passwordHash []byte
}

// Provider is an in-memory implementation of provider.Client.
type Provider struct {
	logger *slog.Logger

	mu       sync.Mutex
	accounts map[string]*account     // keyed by email
	sessions map[string]*domain.User // keyed by session token
}

var _ provider.Client = (*Provider)(nil)

// New creates an empty in-memory provider.
func New(logger *slog.Logger) *Provider {
	return &Provider{
		logger:   logger,
		accounts: make(map[string]*account),
		sessions: make(map[string]*domain.User),
	}
}

func (p *Provider) SignUp(ctx context.Context, email, password string) (*domain.Session, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, domain.Internal(err, "provider.signup", "failed to hash password")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.accounts[email]; exists {
		return nil, domain.Conflict("provider.signup", "an account with this email already exists")
	}

	acct := &account{
		user: domain.User{
			ID:        uuid.New(),
			Email:     email,
			CreatedAt: time.Now().UTC(),
		},
		passwordHash: hash,
	}
	p.accounts[email] = acct

	return p.newSessionLocked(&acct.user), nil
}

func (p *Provider) SignIn(ctx context.Context, email, password string) (*domain.Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	acct, exists := p.accounts[email]
	if !exists {
		return nil, domain.Unauthorized("provider.signin", "invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword(acct.passwordHash, []byte(password)); err != nil {
		return nil, domain.Unauthorized("provider.signin", "invalid email or password")
	}

	return p.newSessionLocked(&acct.user), nil
}

func (p *Provider) SignOut(ctx context.Context, token string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.sessions[token]; !exists {
		return domain.Invalid("provider.signout", "session not found")
	}
	delete(p.sessions, token)
	return nil
}

// RequestPasswordReset always succeeds so callers cannot probe for
// registered addresses. The "email" is only logged.
func (p *Provider) RequestPasswordReset(ctx context.Context, email string) error {
	p.mu.Lock()
	_, exists := p.accounts[email]
	p.mu.Unlock()

	if exists {
		p.logger.Info("mock provider: password reset email queued", "email", email)
	} else {
		p.logger.Debug("mock provider: password reset for unknown email ignored", "email", email)
	}
	return nil
}

func (p *Provider) UserFromToken(ctx context.Context, token string) (*domain.User, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	user, exists := p.sessions[token]
	if !exists {
		return nil, domain.Unauthorized("provider.user", "invalid session token")
	}
	u := *user
	return &u, nil
}

// newSessionLocked mints a session for the user. Caller must hold p.mu.
func (p *Provider) newSessionLocked(user *domain.User) *domain.Session {
	token := uuid.NewString()
	p.sessions[token] = user
	return &domain.Session{
		Token:     token,
		User:      *user,
		ExpiresAt: time.Now().UTC().Add(SessionDuration),
	}
}
