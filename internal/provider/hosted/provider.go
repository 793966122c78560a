// Package hosted implements the provider.Client interface against the
// hosted authentication service's REST API.
package hosted

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/mchandler/wicket/internal/domain"
	"github.com/mchandler/wicket/internal/metrics"
	"github.com/mchandler/wicket/internal/provider"
)

// Config contains configuration for the hosted provider client.
type Config struct {
	// BaseURL is the provider's API root, e.g. https://auth.example.com
	BaseURL string

	// SecretKey is the server-side API key sent on every request.
	SecretKey string

	RequestTimeout time.Duration
	MaxRetries     int
	RetryBaseDelay time.Duration
}

// Client implements provider.Client using the hosted service's REST API.
//
// Transport failures and 5xx responses are retried with exponential
// backoff; 4xx responses are mapped to domain error codes and returned
// immediately.
type Client struct {
	config Config
	http   *http.Client
	logger *slog.Logger
}

var _ provider.Client = (*Client)(nil)

// New creates a new hosted provider client.
func New(config Config, logger *slog.Logger) (*Client, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("provider base URL is required")
	}
	if config.SecretKey == "" {
		return nil, fmt.Errorf("provider secret key is required")
	}

	if config.RequestTimeout == 0 {
		config.RequestTimeout = 10 * time.Second
	}
	if config.MaxRetries == 0 {
		config.MaxRetries = 3
	}
	if config.RetryBaseDelay == 0 {
		config.RetryBaseDelay = 250 * time.Millisecond
	}

	return &Client{
		config: config,
		http:   &http.Client{Timeout: config.RequestTimeout},
		logger: logger,
	}, nil
}

// sessionResponse is the provider's wire format for signin/signup results.
type sessionResponse struct {
	Token     string      `json:"token"`
	User      domain.User `json:"user"`
	ExpiresAt time.Time   `json:"expires_at"`
}

// errorResponse is the provider's wire format for failures.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (c *Client) SignIn(ctx context.Context, email, password string) (*domain.Session, error) {
	var out sessionResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, "signin", http.MethodPost, "/v1/signin", "", body, &out); err != nil {
		return nil, err
	}
	return &domain.Session{Token: out.Token, User: out.User, ExpiresAt: out.ExpiresAt}, nil
}

func (c *Client) SignUp(ctx context.Context, email, password string) (*domain.Session, error) {
	var out sessionResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, "signup", http.MethodPost, "/v1/signup", "", body, &out); err != nil {
		return nil, err
	}
	return &domain.Session{Token: out.Token, User: out.User, ExpiresAt: out.ExpiresAt}, nil
}

func (c *Client) SignOut(ctx context.Context, token string) error {
	return c.do(ctx, "signout", http.MethodPost, "/v1/signout", token, nil, nil)
}

func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	return c.do(ctx, "recover", http.MethodPost, "/v1/recover", "", body, nil)
}

func (c *Client) UserFromToken(ctx context.Context, token string) (*domain.User, error) {
	var out domain.User
	if err := c.do(ctx, "user", http.MethodGet, "/v1/user", token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// do executes one provider API call, retrying transport failures and 5xx
// responses. op names the call for logging and metrics; bearer, when
// non-empty, is sent as the session's Authorization header.
func (c *Client) do(ctx context.Context, op, method, path, bearer string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return domain.Internal(err, "provider."+op, "failed to encode request")
		}
	}

	start := time.Now()
	backoff := retry.WithMaxRetries(uint64(c.config.MaxRetries), retry.NewExponential(c.config.RetryBaseDelay))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, reader)
		if err != nil {
			return domain.Internal(err, "provider."+op, "failed to build request")
		}
		req.Header.Set("X-API-Key", c.config.SecretKey)
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if bearer != "" {
			req.Header.Set("Authorization", "Bearer "+bearer)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return retry.RetryableError(domain.Internal(err, "provider."+op, "provider unreachable"))
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			if out == nil {
				return nil
			}
			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return domain.Internal(err, "provider."+op, "failed to decode response")
			}
			return nil
		}

		if resp.StatusCode >= 500 {
			return retry.RetryableError(domain.Internal(nil, "provider."+op,
				fmt.Sprintf("provider returned status %d", resp.StatusCode)))
		}

		return c.mapClientError(op, resp)
	})

	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.ProviderRequestsTotal.WithLabelValues(op, outcome).Inc()
	metrics.ProviderRequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())

	if err != nil {
		c.logger.Debug("provider call failed", "op", op, "error", err)
	}
	return err
}

// mapClientError translates a provider 4xx response into a domain error.
func (c *Client) mapClientError(op string, resp *http.Response) error {
	var body errorResponse
	_ = json.NewDecoder(io.LimitReader(resp.Body, 64*1024)).Decode(&body)

	message := body.Message
	if message == "" {
		message = fmt.Sprintf("provider returned status %d", resp.StatusCode)
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return domain.Unauthorized("provider."+op, message)
	case http.StatusConflict, http.StatusUnprocessableEntity:
		return domain.Conflict("provider."+op, message)
	case http.StatusNotFound:
		return domain.NotFound("provider."+op, message)
	case http.StatusTooManyRequests:
		return domain.Errorf(domain.ERATELIMIT, "provider."+op, "provider rate limit exceeded")
	default:
		return domain.Invalid("provider."+op, message)
	}
}
