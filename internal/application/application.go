package application

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/eugenenazirov/coffee-shop-env/internal/api"
	"github.com/eugenenazirov/coffee-shop-env/internal/config"
	"github.com/eugenenazirov/coffee-shop-env/internal/environment"
)

// App encapsulates the application dependencies and HTTP server.
type App struct {
	provider *environment.Provider
	router   http.Handler
	logger   *zap.Logger
	server   *http.Server
}

// New loads and validates the environment record, then wires the HTTP
// server that serves it. An invalid record is returned as an error so the
// process refuses to start.
func New(cfg config.Config, logger *zap.Logger) (*App, error) {
	provider, err := environment.Load(cfg.EnvironmentOptions()...)
	if err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	handler, err := api.NewHandler(provider)
	if err != nil {
		return nil, fmt.Errorf("failed to build handler: %w", err)
	}
	apiRouter := api.NewRouter(handler, logger,
		api.WithLogging(cfg.EnableRequestLogging),
		api.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
		api.WithAllowedOrigin(cfg.AllowedOrigin),
	)

	record := provider.Record()
	logger.Info("environment loaded",
		zap.String("target", provider.Target().String()),
		zap.Bool("production", record.Production),
		zap.String("api_server_url", record.APIServerURL),
		zap.String("auth0_domain", record.Auth0.Domain()),
		zap.String("callback_url", record.Auth0.CallbackURL),
	)

	return &App{
		provider: provider,
		router:   apiRouter,
		logger:   logger,
		server:   NewServer(cfg, BuildRootHandler(apiRouter)),
	}, nil
}

// BuildRootHandler mounts the API and the conventional /environment.json
// alias that front-ends fetch on boot. Every other path goes to the API
// router, which answers unknown routes with a JSON error.
func BuildRootHandler(apiHandler http.Handler) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/environment.json", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r2 := r.Clone(r.Context())
		r2.URL.Path = "/api/environment"
		r2.URL.RawPath = ""
		apiHandler.ServeHTTP(w, r2)
	}))
	mux.Handle("/", apiHandler)
	return mux
}

// NewServer creates and configures an HTTP server from the provided configuration.
func NewServer(cfg config.Config, handler http.Handler) *http.Server {
	addr := cfg.Port
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}

// Start starts the HTTP server in a goroutine and logs the listening address.
func (a *App) Start() error {
	go func() {
		a.logger.Info("server listening", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Fatal("server error", zap.Error(err))
		}
	}()
	return nil
}

// Server returns the HTTP server instance for shutdown handling.
func (a *App) Server() *http.Server {
	return a.server
}

// Provider returns the loaded environment provider.
func (a *App) Provider() *environment.Provider {
	return a.provider
}
