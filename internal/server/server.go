// Package server provides the HTTP API for wordify.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/hyperjump/wordify/internal/config"
	"github.com/hyperjump/wordify/internal/metrics"
	"github.com/hyperjump/wordify/internal/scanner"
	"github.com/hyperjump/wordify/internal/storage"
	"github.com/hyperjump/wordify/internal/wordify"
)

const (
	requestTimeout = 60 * time.Second
	maxBodyBytes   = 2 << 20
)

// WatchService manages watched directories; *watcher.Watcher satisfies it.
type WatchService interface {
	Directories() []string
	AddDirectory(path string, syncExisting bool) error
	RemoveDirectory(path string) error
}

// Server is the HTTP server for the wordify API.
type Server struct {
	scanner  *scanner.Scanner
	storage  storage.Storage // nil when history is disabled
	config   *config.Config
	logger   *zap.Logger
	metrics  *metrics.Metrics
	validate *validator.Validate
	convert  []wordify.Option

	watch      WatchService
	configPath string
	configMu   sync.Mutex

	server *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithWatch enables the watch directory endpoints. When configPath is set,
// directory changes are written back to that config file.
func WithWatch(svc WatchService, configPath string) Option {
	return func(s *Server) {
		s.watch = svc
		s.configPath = configPath
	}
}

// WithMetrics records request latency and serves /metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// NewServer creates a server. store may be nil, in which case history
// endpoints answer 501.
func NewServer(sc *scanner.Scanner, store storage.Storage, cfg *config.Config, logger *zap.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		scanner:  sc,
		storage:  store,
		config:   cfg,
		logger:   logger,
		validate: validator.New(),
		convert:  []wordify.Option{wordify.WithSerialCommas(cfg.Output.SerialCommas)},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler builds the router with its middleware stack.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))
	if s.config.Server.RateLimit > 0 {
		r.Use(newRateLimiter(s.config.Server.RateLimit, s.config.Server.RateBurst).middleware)
	}

	r.Get("/health", s.handleHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.AllowContentType("application/json"))
		r.Post("/convert", s.handleConvert)
		r.Post("/extract", s.handleExtract)
		r.Post("/wordify", s.handleWordify)
		r.Get("/conversions", s.handleListConversions)
		r.Get("/status", s.handleStatus)

		r.Get("/watch/directories", s.handleWatchDirectoriesList)
		r.Post("/watch/directories", s.handleWatchDirectoriesAdd)
		r.Delete("/watch/directories", s.handleWatchDirectoriesRemove)
	})
	return r
}

// Start starts the HTTP server and blocks until it stops. It returns
// http.ErrServerClosed once Stop has been called.
func (s *Server) Start() error {
	s.logger.Info("starting server", zap.String("addr", s.server.Addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server. It may be called from any
// goroutine, before or after Start.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
