// Package form implements the client-side submission lifecycle for the
// auth forms: login, registration, and password-reset request.
//
// A Form holds mutable field state, validates it synchronously on submit,
// issues one JSON POST to its endpoint, and maps the response onto a UI
// state: idle, submitting, success, or a set of field/general errors.
// Rendering is the embedding UI's concern; the Form only owns state.
package form

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// Kind selects which auth endpoint a form drives.
type Kind string

const (
	KindLogin          Kind = "login"
	KindRegister       Kind = "register"
	KindForgotPassword Kind = "forgot-password"
)

// Field names. These double as the JSON keys in the request body.
const (
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirmPassword"

	// fieldGeneral keys submission-level errors not tied to a single input.
	fieldGeneral = "general"
)

// General error messages shown for server and transport failures.
const (
	msgInvalidCredentials = "Invalid credentials. Please check your email and password."
	msgAccountExists      = "An account with this email already exists."
	msgInvalidInput       = "Invalid input. Please check the form and try again."
	msgUnexpected         = "An unexpected error occurred. Please try again later."
	msgConnectionFailed   = "Unable to connect. Please check your network and try again."
)

// defaultRedirectDelay is how long the registration success view is shown
// before navigating to the root path.
const defaultRedirectDelay = 3 * time.Second

// ErrSubmissionInFlight is returned by Submit when a submission is already
// running. The submit control is disabled while submitting, but the guard
// is enforced here rather than trusted to the UI.
var ErrSubmissionInFlight = errors.New("form: submission already in flight")

// Navigator performs a client-side navigation after a successful submit.
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a function to the Navigator interface.
type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) { f(path) }

// Options configures a Form.
type Options struct {
	// BaseURL is the origin the form posts to, e.g. http://localhost:8080.
	BaseURL string

	// HTTPClient defaults to a plain client with the transport's default
	// timeout. The forms deliberately add no retry or timeout logic.
	HTTPClient *http.Client

	// Navigator receives post-success navigations. Defaults to a no-op.
	Navigator Navigator

	Logger *slog.Logger

	// RedirectDelay overrides the registration success redirect delay.
	RedirectDelay time.Duration
}

// Form is one auth form instance. All methods are safe for concurrent use.
type Form struct {
	kind     Kind
	path     string
	fields   []string
	validate func(values map[string]string) map[string]string

	baseURL       string
	client        *http.Client
	nav           Navigator
	logger        *slog.Logger
	redirectDelay time.Duration

	mu            sync.Mutex
	values        map[string]string
	errors        map[string]string
	submitting    bool
	succeeded     bool
	redirectTimer *time.Timer
}

// NewLogin creates a login form posting to /api/auth/login.
func NewLogin(opts Options) *Form {
	return newForm(KindLogin, "/api/auth/login",
		[]string{FieldEmail, FieldPassword}, validateLogin, opts)
}

// NewRegister creates a registration form posting to /api/auth/register.
func NewRegister(opts Options) *Form {
	return newForm(KindRegister, "/api/auth/register",
		[]string{FieldEmail, FieldPassword, FieldConfirmPassword}, validateRegister, opts)
}

// NewForgotPassword creates a password-reset request form posting to
// /api/auth/forgot-password.
func NewForgotPassword(opts Options) *Form {
	return newForm(KindForgotPassword, "/api/auth/forgot-password",
		[]string{FieldEmail}, validateForgotPassword, opts)
}

func newForm(kind Kind, path string, fields []string, validate func(map[string]string) map[string]string, opts Options) *Form {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	nav := opts.Navigator
	if nav == nil {
		nav = NavigatorFunc(func(string) {})
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	delay := opts.RedirectDelay
	if delay == 0 {
		delay = defaultRedirectDelay
	}

	return &Form{
		kind:          kind,
		path:          path,
		fields:        fields,
		validate:      validate,
		baseURL:       opts.BaseURL,
		client:        client,
		nav:           nav,
		logger:        logger,
		redirectDelay: delay,
		values:        make(map[string]string),
		errors:        make(map[string]string),
	}
}

// SetField records a user edit to the named field.
func (f *Form) SetField(name, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[name] = value
}

// Field returns the current value of the named field.
func (f *Form) Field(name string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values[name]
}

// FieldError returns the validation message for the named field, or "".
func (f *Form) FieldError(name string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errors[name]
}

// GeneralError returns the submission-level error message, or "".
func (f *Form) GeneralError() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errors[fieldGeneral]
}

// Errors returns a copy of all current error messages.
func (f *Form) Errors() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]string, len(f.errors))
	for k, v := range f.errors {
		out[k] = v
	}
	return out
}

// Submitting reports whether a network call is in flight.
func (f *Form) Submitting() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitting
}

// Succeeded reports whether the form reached its terminal success state.
func (f *Form) Succeeded() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.succeeded
}

// Submit runs the submission lifecycle: validate, POST, map the response.
//
// Validation failure aborts before any network call; the field errors are
// replaced wholesale and the form stays idle. Server and transport
// failures land in GeneralError. The only error Submit itself returns is
// ErrSubmissionInFlight; everything else is UI state, mirroring how the
// form behaves on screen.
func (f *Form) Submit(ctx context.Context) error {
	f.mu.Lock()
	if f.submitting {
		f.mu.Unlock()
		return ErrSubmissionInFlight
	}
	if f.succeeded {
		// Terminal view; the form is no longer shown.
		f.mu.Unlock()
		return nil
	}

	if fieldErrs := f.validate(f.values); len(fieldErrs) > 0 {
		f.errors = fieldErrs
		f.mu.Unlock()
		return nil
	}

	f.errors = make(map[string]string)
	f.submitting = true
	body := make(map[string]string, len(f.fields))
	for _, name := range f.fields {
		body[name] = f.values[name]
	}
	f.mu.Unlock()

	status, serverMsg, err := f.post(ctx, body)

	f.mu.Lock()
	f.submitting = false

	if err != nil {
		f.errors = map[string]string{fieldGeneral: msgConnectionFailed}
		f.mu.Unlock()
		f.logger.Warn("form submission failed", "kind", string(f.kind), "error", err)
		return nil
	}

	navigateNow := f.applyResponseLocked(status, serverMsg)
	f.mu.Unlock()

	if navigateNow {
		f.nav.Navigate("/")
	}
	return nil
}

// Close cancels the pending post-success redirect, if any. Call it when
// the form is torn down so the navigation cannot fire afterwards.
func (f *Form) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.redirectTimer != nil {
		f.redirectTimer.Stop()
		f.redirectTimer = nil
	}
}

// post issues the JSON POST and extracts the response status plus the
// optional {"error": "..."} body message. A non-nil error means the
// request never completed.
func (f *Form) post(ctx context.Context, body map[string]string) (int, string, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return 0, "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.baseURL+f.path, bytes.NewReader(payload))
	if err != nil {
		return 0, "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()

	var decoded struct {
		Error string `json:"error"`
	}
	_ = json.NewDecoder(io.LimitReader(resp.Body, 64*1024)).Decode(&decoded)

	return resp.StatusCode, decoded.Error, nil
}

// applyResponseLocked maps the response status onto the terminal state.
// Caller must hold f.mu. The return value reports whether the caller
// should navigate to the root path once the lock is released.
func (f *Form) applyResponseLocked(status int, serverMsg string) bool {
	if status >= 200 && status < 300 {
		f.succeeded = true
		f.values = make(map[string]string)

		switch f.kind {
		case KindLogin:
			return true
		case KindRegister:
			// Show the confirmation view, then navigate. The timer is
			// stored so Close can stop it if the form is torn down first.
			f.redirectTimer = time.AfterFunc(f.redirectDelay, func() {
				f.nav.Navigate("/")
			})
		}
		return false
	}

	var general string
	switch {
	case f.kind == KindLogin && status == http.StatusUnauthorized:
		general = msgInvalidCredentials
	case f.kind == KindRegister && status == http.StatusConflict:
		general = msgAccountExists
	case status == http.StatusBadRequest && serverMsg != "":
		general = serverMsg
	case status == http.StatusBadRequest:
		general = msgInvalidInput
	default:
		general = msgUnexpected
	}
	f.errors = map[string]string{fieldGeneral: general}
	return false
}
