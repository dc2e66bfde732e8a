// Package app wires configuration, logging, tracing, metrics, the session
// store, and the HTTP server into a runnable application.
package app

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"cleansheet/internal/config"
	"cleansheet/internal/infrastructure"
	"cleansheet/internal/metrics"
	"cleansheet/internal/services"
	"cleansheet/internal/session"
	transport "cleansheet/internal/transport/http"
)

const (
	// Version is the application version reported by /api/health
	Version = "1.0.0"
	AppName = "CleanSheet - Interactive CSV Cleaning"
)

// Application is the main application container
type Application struct {
	Config  *config.Config
	Paths   *config.Paths
	Server  *http.Server
	Store   *session.Store
	Service *services.CleaningService
	Metrics *metrics.Metrics
	Logger  *slog.Logger

	otelShutdown func(context.Context) error
}

// NewApplication builds the application from configuration. frontendFS holds
// the embedded web UI; nil runs the API without the UI.
func NewApplication(frontendFS fs.FS) (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("application starting",
		slog.String("name", AppName),
		slog.String("version", Version))

	paths, err := config.ResolvePaths(cfg.Paths)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}
	logger.Info("paths resolved",
		slog.String("base_dir", paths.BaseDir),
		slog.String("exports_dir", paths.ExportsDir),
		slog.String("logs_dir", paths.LogsDir))

	otelShutdown, err := infrastructure.InitializeTracing(infrastructure.DefaultTracingConfig(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}

	m := metrics.New()
	store := session.NewStore(cfg.Session.TTL, cfg.Session.SweepInterval, logger)
	service := services.NewCleaningService(cfg, paths, store, m, logger)

	router := transport.NewRouter(transport.RouterConfig{
		Service:        service,
		Logger:         logger,
		Version:        Version,
		UploadMaxBytes: cfg.Upload.MaxBytes,
		RateLimit:      cfg.Server.RateLimit,
		MetricsHandler: m.Handler(),
		WebFS:          frontendFS,
	})

	app := &Application{
		Config:  cfg,
		Paths:   paths,
		Store:   store,
		Service: service,
		Metrics: m,
		Logger:  logger,
		Server: &http.Server{
			Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:        router,
			ReadTimeout:    cfg.Server.ReadTimeout,
			WriteTimeout:   cfg.Server.WriteTimeout,
			IdleTimeout:    cfg.Server.IdleTimeout,
			MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
		},
		otelShutdown: otelShutdown,
	}
	return app, nil
}

// Start starts the HTTP server. Server errors cancel the passed context.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "starting server",
		slog.Int("port", a.Config.Server.Port),
		slog.String("address", fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)))

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.Logger.ErrorContext(ctx, "server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	if err := a.startupCheck(); err != nil {
		a.Logger.WarnContext(ctx, "startup check warnings", slog.String("warnings", err.Error()))
	}
	return nil
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	a.Store.Close()

	if a.otelShutdown != nil {
		if err := a.otelShutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "error shutting down tracing", slog.String("error", err.Error()))
		}
	}

	a.Logger.InfoContext(ctx, "shutdown complete")
	return nil
}

// Run runs the application until interrupted
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	select {
	case <-sigChan:
		a.Logger.InfoContext(ctx, "received interrupt signal")
	case <-ctx.Done():
	}

	return a.Stop(context.Background())
}

// startupCheck verifies the directories the application writes to
func (a *Application) startupCheck() error {
	var warnings []string
	for name, dir := range map[string]string{
		"exports": a.Paths.ExportsDir,
		"logs":    a.Paths.LogsDir,
	} {
		probe := filepath.Join(dir, ".write_test")
		if err := os.WriteFile(probe, []byte("test"), 0644); err != nil {
			warnings = append(warnings, fmt.Sprintf("%s directory not writable: %s", name, dir))
			continue
		}
		os.Remove(probe)
	}
	if len(warnings) > 0 {
		return fmt.Errorf("%s", strings.Join(warnings, "; "))
	}
	return nil
}
