// Package handler contains the HTTP handlers for the Wicket auth API.
//
// Every route is a thin delegation: decode and validate the request body,
// make exactly one provider call, and map the result onto an HTTP status.
// No business logic lives here.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/mchandler/wicket/internal/auth"
	"github.com/mchandler/wicket/internal/domain"
	"github.com/mchandler/wicket/internal/metrics"
	"github.com/mchandler/wicket/internal/provider"
	"github.com/mchandler/wicket/internal/session"
)

// User-facing messages. The form client surfaces these verbatim, so the
// wording is part of the API contract.
const (
	MsgInvalidCredentials = "Invalid credentials. Please check your email and password."
	MsgAccountExists      = "An account with this email already exists."
	MsgSignOutFailed      = "Failed to sign out. Please try again."
	MsgUnexpected         = "An unexpected error occurred. Please try again later."
)

// AuthHandler handles the /api/auth routes.
//
// Routes handled:
//   - POST /api/auth/login
//   - POST /api/auth/register
//   - POST /api/auth/forgot-password
//   - POST /api/auth/logout
//   - GET  /api/auth/me
type AuthHandler struct {
	provider provider.Client
	logger   *slog.Logger
	validate *validator.Validate
	isSecure bool
}

// NewAuthHandler creates a new AuthHandler. Set isSecure in production so
// session cookies carry the Secure flag.
func NewAuthHandler(p provider.Client, logger *slog.Logger, isSecure bool) *AuthHandler {
	return &AuthHandler{
		provider: p,
		logger:   logger,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		isSecure: isSecure,
	}
}

// Request bodies. Field validation mirrors the client-side checks so a
// form that bypasses them still gets the same answers.

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type registerRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !h.decode(w, r, &req) {
		return
	}

	sess, err := h.provider.SignIn(r.Context(), normalizeEmail(req.Email), req.Password)
	if err != nil {
		switch domain.ErrorCode(err) {
		case domain.EUNAUTHORIZED:
			metrics.AuthAttemptsTotal.WithLabelValues("login", "denied").Inc()
			writeError(w, http.StatusUnauthorized, MsgInvalidCredentials)
		case domain.EINVALID:
			writeError(w, http.StatusBadRequest, domain.ErrorMessage(err))
		default:
			metrics.AuthAttemptsTotal.WithLabelValues("login", "error").Inc()
			h.logger.Error("login failed", "error", err)
			writeError(w, http.StatusInternalServerError, MsgUnexpected)
		}
		return
	}

	session.SetCookie(w, sess.Token, h.isSecure)
	metrics.AuthAttemptsTotal.WithLabelValues("login", "success").Inc()
	h.logger.Info("user logged in", "user_id", sess.User.ID)

	writeJSON(w, http.StatusOK, map[string]any{"user": sess.User})
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !h.decode(w, r, &req) {
		return
	}

	sess, err := h.provider.SignUp(r.Context(), normalizeEmail(req.Email), req.Password)
	if err != nil {
		switch domain.ErrorCode(err) {
		case domain.ECONFLICT:
			metrics.AuthAttemptsTotal.WithLabelValues("register", "conflict").Inc()
			writeError(w, http.StatusConflict, MsgAccountExists)
		case domain.EINVALID:
			writeError(w, http.StatusBadRequest, domain.ErrorMessage(err))
		default:
			metrics.AuthAttemptsTotal.WithLabelValues("register", "error").Inc()
			h.logger.Error("registration failed", "error", err)
			writeError(w, http.StatusInternalServerError, MsgUnexpected)
		}
		return
	}

	session.SetCookie(w, sess.Token, h.isSecure)
	metrics.AuthAttemptsTotal.WithLabelValues("register", "success").Inc()
	h.logger.Info("user registered", "user_id", sess.User.ID)

	writeJSON(w, http.StatusCreated, map[string]any{"user": sess.User})
}

// ForgotPassword handles POST /api/auth/forgot-password.
//
// Well-formed requests always get 200 regardless of whether the email is
// registered, so the endpoint cannot be used to enumerate accounts.
// Provider failures are logged and swallowed for the same reason.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.provider.RequestPasswordReset(r.Context(), normalizeEmail(req.Email)); err != nil {
		h.logger.Debug("password reset request failed", "error", err)
	}

	metrics.AuthAttemptsTotal.WithLabelValues("forgot_password", "accepted").Inc()
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// Logout handles POST /api/auth/logout.
//
// The cookie is cleared even when the provider call fails; a client that
// asked to sign out should never keep a usable cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var token string
	if cookie, err := r.Cookie(session.CookieName); err == nil {
		token = cookie.Value
	}

	err := h.provider.SignOut(r.Context(), token)
	session.ClearCookie(w, h.isSecure)

	if err != nil {
		if domain.ErrorCode(err) == domain.EINTERNAL {
			h.logger.Error("logout failed", "error", err)
			writeError(w, http.StatusInternalServerError, MsgUnexpected)
			return
		}
		h.logger.Debug("provider rejected sign-out", "error", err)
		writeError(w, http.StatusBadRequest, MsgSignOutFailed)
		return
	}

	h.logger.Debug("user logged out")
	w.WriteHeader(http.StatusOK)
}

// Me handles GET /api/auth/me. It expects middleware to have resolved the
// session cookie into a user already.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())
	if user == nil {
		UnauthorizedResponse(w, r, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}

// decode parses and validates a JSON request body. On failure it writes a
// 400 with the first field's message and returns false.
func (h *AuthHandler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	body := http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}

	if err := h.validate.Struct(dst); err != nil {
		message := "Invalid input"
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			message = fieldMessage(verrs[0])
		}
		writeError(w, http.StatusBadRequest, message)
		return false
	}

	return true
}

// fieldMessage maps a validator failure onto the same wording the form
// client uses for its local checks.
func fieldMessage(fe validator.FieldError) string {
	switch {
	case fe.Field() == "Email" && fe.Tag() == "required":
		return "Email is required"
	case fe.Field() == "Email":
		return "Please enter a valid email address"
	case fe.Field() == "Password" && fe.Tag() == "min":
		return "Password must be at least 8 characters"
	case fe.Field() == "Password":
		return "Password is required"
	case fe.Field() == "ConfirmPassword" && fe.Tag() == "required":
		return "Please confirm your password"
	case fe.Field() == "ConfirmPassword":
		return "Passwords do not match"
	default:
		return "Invalid input"
	}
}

// normalizeEmail lowercases and trims an address before it reaches the
// provider, so lookups are case-insensitive.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
