package http

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"cleansheet/internal/config"
	apierrors "cleansheet/internal/errors"
	custommw "cleansheet/internal/middleware"
)

// RouterConfig carries everything the router needs to wire the API
type RouterConfig struct {
	Service        CleaningServiceInterface
	Logger         *slog.Logger
	Version        string
	UploadMaxBytes int64
	RateLimit      config.RateLimitConfig
	MetricsHandler http.Handler
	WebFS          fs.FS // embedded UI; nil disables the UI routes
}

// NewRouter builds the chi router with the full middleware chain and all
// API routes mounted.
func NewRouter(cfg RouterConfig) chi.Router {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	errorHandler := apierrors.NewErrorHandler(logger, false)

	r := chi.NewRouter()

	r.Use(custommw.RequestID)
	r.Use(custommw.RealIP)
	r.Use(custommw.StructuredLogger(logger))
	r.Use(custommw.Recoverer(logger))
	r.Use(custommw.SecurityHeaders)
	r.Use(custommw.Compress(5))
	if cfg.RateLimit.Enabled {
		limiter := custommw.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, logger)
		r.Use(limiter.Handler)
	}

	sessionHandler := NewSessionHandler(cfg.Service, cfg.UploadMaxBytes, logger, errorHandler)
	exportsHandler := NewExportsHandler(cfg.Service, logger, errorHandler)
	healthHandler := NewHealthHandler(cfg.Version)

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Mount("/sessions", sessionHandler.Routes())
		r.Get("/exports", exportsHandler.List)
		r.Get("/health", healthHandler.Health)
		r.Get("/health/ready", healthHandler.Ready)
	})

	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	if cfg.WebFS != nil {
		fileServer := http.FileServer(http.FS(cfg.WebFS))
		r.Get("/*", func(w http.ResponseWriter, req *http.Request) {
			fileServer.ServeHTTP(w, req)
		})
	}

	return r
}
