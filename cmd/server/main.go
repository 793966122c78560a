package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mchandler/wicket/internal"
	"github.com/mchandler/wicket/internal/handler"
	"github.com/mchandler/wicket/internal/metrics"
	"github.com/mchandler/wicket/internal/middleware"
	"github.com/mchandler/wicket/internal/provider"
	"github.com/mchandler/wicket/internal/provider/hosted"
	"github.com/mchandler/wicket/internal/provider/mock"
)

func run() error {
	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Initialize auth provider
	var authProvider provider.Client
	switch cfg.Provider {
	case "hosted":
		authProvider, err = hosted.New(hosted.Config{
			BaseURL:        cfg.ProviderURL,
			SecretKey:      cfg.ProviderSecretKey,
			RequestTimeout: cfg.ProviderTimeout,
			MaxRetries:     cfg.ProviderMaxRetries,
			RetryBaseDelay: cfg.ProviderRetryBaseDelay,
		}, logger)
		if err != nil {
			return fmt.Errorf("provider initialization failed: %w", err)
		}
	default:
		authProvider = mock.New(logger)
	}
	logger.Info("Auth provider ready", "provider", cfg.Provider)

	// Initialize middleware
	isSecure := cfg.IsProduction()
	authMw := middleware.NewAuthMiddleware(authProvider, logger, isSecure)
	loggingMw := middleware.NewRequestLoggingMiddleware(logger)
	securityMw := middleware.NewSecurityHeadersMiddleware(isSecure)
	metricsAuthMw := middleware.NewMetricsAuthMiddleware(cfg.MetricsUsername, cfg.MetricsPassword)
	rateLimiter := middleware.NewAuthRateLimiter(logger)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authProvider, logger, isSecure)

	// ==========================================================================
	// Create router and register routes
	// ==========================================================================

	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Metrics (basic auth when credentials are configured)
	mux.Handle("GET /metrics", metricsAuthMw.Handler(promhttp.Handler()))

	// Auth routes (public, rate limited per endpoint)
	mux.Handle("POST /api/auth/login",
		rateLimiter.LimitLogin(http.HandlerFunc(authHandler.Login)))
	mux.Handle("POST /api/auth/register",
		rateLimiter.LimitRegister(http.HandlerFunc(authHandler.Register)))
	mux.Handle("POST /api/auth/forgot-password",
		rateLimiter.LimitPasswordReset(http.HandlerFunc(authHandler.ForgotPassword)))
	mux.HandleFunc("POST /api/auth/logout", authHandler.Logout)

	// Session-aware routes
	requireUser := middleware.Stack(authMw.WithUser, authMw.RequireUser)
	mux.Handle("GET /api/auth/me", requireUser(http.HandlerFunc(authHandler.Me)))

	// Outer middleware chain applied to every route
	chain := middleware.Stack(
		loggingMw.Handler,
		securityMw.Handler,
		metrics.Middleware,
	)

	// ==========================================================================
	// Start server
	// ==========================================================================

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: chain(mux),
	}

	// Channel to listen for interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Start server in goroutine
	go func() {
		logger.Info("Server started", "address", server.Addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
		}
	}()

	// Wait for interrupt signal
	<-sigChan
	logger.Info("Shutdown signal received, initiating graceful shutdown...")

	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Graceful shutdown complete")
	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
