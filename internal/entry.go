// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/starford/tessitura/internal/api"
	"github.com/starford/tessitura/internal/confwatch"
	"github.com/starford/tessitura/internal/engine"
	"github.com/starford/tessitura/internal/mcpserver"
	"github.com/starford/tessitura/internal/metrics"
	"github.com/starford/tessitura/internal/sse"
)

// server is the assembled HTTP application.
type server struct {
	handler  http.Handler
	svc      *api.Service
	broker   *sse.Broker
	metrics  *metrics.Metrics
	reloader *reloader
}

func newApplication(opts []Option) (*application, error) {
	app := &application{version: "dev"}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	return app, nil
}

// newServer wires the engine, service, metrics and routes. The caller
// closes the returned broker.
func newServer(app *application, logger *slog.Logger, level *slog.LevelVar) (*server, error) {
	cfg := app.config

	e, err := engine.New()
	if err != nil {
		return nil, fmt.Errorf("init engine: %w", err)
	}
	if err := CheckDefaults(e, cfg.Defaults); err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m, err := metrics.New(registry)
	if err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}

	svc := api.NewService(e, cfg.Defaults.Selection(),
		api.WithMetrics(m),
		api.WithCache(cfg.Cache.TTL, cfg.Cache.CleanupInterval),
	)

	broker := sse.NewBroker(15 * time.Second)

	apiRouter := api.NewRouter(svc, api.RouterConfig{
		AuthEnabled: cfg.Auth.AuthEnabled(),
		Token:       cfg.Auth.Token,
		Events:      broker,
		Limiter:     api.NewLimiter(cfg.App.HTTP.RateLimit, cfg.App.HTTP.Burst),
	})

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(m.Middleware)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":      "ok",
			"version":     app.version,
			"keys":        len(e.KeySignatures()),
			"instruments": len(e.Instruments()),
			"cached":      svc.CacheSize(),
		})
	})

	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	return &server{
		handler: r,
		svc:     svc,
		broker:  broker,
		metrics: m,
		reloader: &reloader{
			path:    app.configPath,
			current: cfg,
			engine:  e,
			level:   level,
			svc:     svc,
			events:  broker,
			metrics: m,
			logger:  logger,
		},
	}, nil
}

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	// Initialize structured JSON logger.
	level := new(slog.LevelVar)
	level.Set(cfg.App.LogLevel)
	logger := NewLogger(os.Stdout, level)
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("config_path", app.configPath),
		slog.String("default_instrument", cfg.Defaults.Instrument),
		slog.String("default_key", cfg.Defaults.Key),
		slog.String("log_level", cfg.App.LogLevel.String()))

	srv, err := newServer(app, logger, level)
	if err != nil {
		return err
	}
	defer srv.broker.Close()

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           srv.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	// Reload defaults and log level when the config file changes.
	if cfg.Watch.Enabled && app.configPath != "" {
		g.Go(func() error {
			err := confwatch.Watch(gCtx, app.configPath, cfg.Watch.Debounce, logger, srv.reloader.reload)
			if err != nil {
				logger.Warn("config watcher stopped", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		// Close event streams first so Shutdown does not wait on them.
		srv.broker.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// RunMCP serves the catalogs and resolver over MCP on stdin and stdout.
// Logs go to stderr so they do not corrupt the protocol stream.
func RunMCP(_ context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	level := new(slog.LevelVar)
	level.Set(cfg.App.LogLevel)
	logger := NewLogger(os.Stderr, level)
	slog.SetDefault(logger)

	e, err := engine.New()
	if err != nil {
		return fmt.Errorf("init engine: %w", err)
	}
	if err := CheckDefaults(e, cfg.Defaults); err != nil {
		return err
	}

	svc := api.NewService(e, cfg.Defaults.Selection(),
		api.WithCache(cfg.Cache.TTL, cfg.Cache.CleanupInterval),
	)

	logger.Info("Starting MCP server", slog.String("version", app.version))
	if err := mcpserver.New(svc, app.version).ServeStdio(); err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}
