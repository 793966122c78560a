package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/mchandler/wicket/internal/auth"
	"github.com/mchandler/wicket/internal/domain"
	"github.com/mchandler/wicket/internal/session"
)

// stubProvider implements provider.Client with func fields for testing.
type stubProvider struct {
	UserFromTokenFunc func(ctx context.Context, token string) (*domain.User, error)
}

func (s *stubProvider) SignIn(ctx context.Context, email, password string) (*domain.Session, error) {
	return nil, errors.New("not implemented")
}

func (s *stubProvider) SignUp(ctx context.Context, email, password string) (*domain.Session, error) {
	return nil, errors.New("not implemented")
}

func (s *stubProvider) SignOut(ctx context.Context, token string) error {
	return errors.New("not implemented")
}

func (s *stubProvider) RequestPasswordReset(ctx context.Context, email string) error {
	return errors.New("not implemented")
}

func (s *stubProvider) UserFromToken(ctx context.Context, token string) (*domain.User, error) {
	if s.UserFromTokenFunc != nil {
		return s.UserFromTokenFunc(ctx, token)
	}
	return nil, errors.New("UserFromTokenFunc not implemented")
}

func TestWithUser_ResolvesValidToken(t *testing.T) {
	user := &domain.User{ID: uuid.New(), Email: "user@example.com"}
	stub := &stubProvider{
		UserFromTokenFunc: func(ctx context.Context, token string) (*domain.User, error) {
			if token != "tok-abc" {
				t.Errorf("token = %q", token)
			}
			return user, nil
		},
	}
	mw := NewAuthMiddleware(stub, testLogger(), false)

	var gotUser *domain.User
	handler := mw.WithUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = auth.UserFrom(r.Context())
	}))

	req := httptest.NewRequest("GET", "/api/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: "tok-abc"})
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if gotUser == nil || gotUser.ID != user.ID {
		t.Errorf("handler saw user %+v, want %+v", gotUser, user)
	}
}

func TestWithUser_NoCookiePassesThrough(t *testing.T) {
	called := false
	stub := &stubProvider{
		UserFromTokenFunc: func(ctx context.Context, token string) (*domain.User, error) {
			called = true
			return nil, nil
		},
	}
	mw := NewAuthMiddleware(stub, testLogger(), false)

	var gotUser *domain.User
	handler := mw.WithUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = auth.UserFrom(r.Context())
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	if called {
		t.Error("provider must not be called without a cookie")
	}
	if gotUser != nil {
		t.Errorf("expected no user, got %+v", gotUser)
	}
}

func TestWithUser_InvalidTokenClearsCookie(t *testing.T) {
	stub := &stubProvider{
		UserFromTokenFunc: func(ctx context.Context, token string) (*domain.User, error) {
			return nil, domain.Unauthorized("provider.user", "invalid session token")
		},
	}
	mw := NewAuthMiddleware(stub, testLogger(), false)

	handler := mw.WithUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth.UserFrom(r.Context()) != nil {
			t.Error("no user should be attached for an invalid token")
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: "stale-token"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var cleared bool
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == session.CookieName && cookie.MaxAge == -1 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("expected stale cookie to be cleared")
	}
}

func TestRequireUser_RejectsAnonymous(t *testing.T) {
	mw := NewAuthMiddleware(&stubProvider{}, testLogger(), false)

	handler := mw.RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("protected handler must not run for anonymous requests")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/api/auth/me", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want JSON error", ct)
	}
}

func TestRequireUser_AllowsAuthenticated(t *testing.T) {
	mw := NewAuthMiddleware(&stubProvider{}, testLogger(), false)

	handler := mw.RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/api/auth/me", nil)
	req = req.WithContext(auth.WithUser(req.Context(), &domain.User{ID: uuid.New()}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestStack_OrdersOutermostFirst(t *testing.T) {
	var order []string
	tag := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	handler := Stack(tag("a"), tag("b"), tag("c"))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	want := []string{"a", "b", "c", "handler"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}
