// internal/api/server.go
package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/khushi-saxena/TradeSage/internal/analysis"
	handlerapi "github.com/khushi-saxena/TradeSage/internal/api/handler/api"
	"github.com/khushi-saxena/TradeSage/internal/api/job"
	"github.com/khushi-saxena/TradeSage/internal/api/middleware"
	"github.com/khushi-saxena/TradeSage/internal/backtest"
	"github.com/khushi-saxena/TradeSage/internal/config"
	"github.com/khushi-saxena/TradeSage/internal/metrics"
	"github.com/khushi-saxena/TradeSage/internal/report"
	"github.com/khushi-saxena/TradeSage/internal/strategy"
)

// Server is the HTTP server exposing the backtest API.
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
	mux        *http.ServeMux
	handler    http.Handler
}

// Config holds server configuration.
type Config struct {
	Host        string
	Port        int
	APIKey      string
	MetricsPath string
}

// Dependencies carries the collaborators the server routes requests to.
type Dependencies struct {
	Backtester *backtest.Backtester
	Strategies *strategy.Engine
	Prices     handlerapi.PriceSource
	Jobs       *job.Store
	Archiver   *report.Archiver  // Optional
	Analyst    *analysis.Analyst // Optional
	Metrics    *metrics.Registry // Optional
	Defaults   config.BacktestConfig
}

// NewServer creates a new HTTP server.
func NewServer(cfg Config, deps Dependencies, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	mux := http.NewServeMux()

	s := &Server{
		logger: logger,
		mux:    mux,
	}
	s.setupRoutes(cfg, deps)

	var handler http.Handler = mux
	handler = metrics.LoggingMiddleware(logger)(handler)
	if deps.Metrics != nil {
		handler = metrics.HTTPMiddleware(deps.Metrics)(handler)
	}
	s.handler = handler

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes(cfg Config, deps Dependencies) {
	backtestHandler := handlerapi.NewBacktestHandler(
		deps.Jobs, deps.Backtester, deps.Prices,
		deps.Archiver, deps.Metrics, deps.Defaults, s.logger)
	strategiesHandler := handlerapi.NewStrategiesHandler(deps.Strategies)
	analysisHandler := handlerapi.NewAnalysisHandler(deps.Jobs, deps.Analyst)

	s.mux.HandleFunc("/healthz", s.handleHealth)

	if deps.Metrics != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		s.mux.Handle(path, promhttp.HandlerFor(deps.Metrics.Registry,
			promhttp.HandlerOpts{}))
	}

	auth := middleware.APIKeyAuth(cfg.APIKey)

	s.mux.Handle("/api/v1/strategies", auth(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
				return
			}
			strategiesHandler.List(w, r)
		})))

	s.mux.Handle("/api/v1/backtests", auth(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
				return
			}
			backtestHandler.Create(w, r)
		})))

	s.mux.Handle("/api/v1/backtests/", auth(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			rest := strings.TrimPrefix(r.URL.Path, "/api/v1/backtests/")
			switch {
			case r.Method == http.MethodGet && !strings.Contains(rest, "/"):
				backtestHandler.GetStatus(w, r, rest)
			case r.Method == http.MethodPost && strings.HasSuffix(rest, "/analysis"):
				analysisHandler.Explain(w, r, strings.TrimSuffix(rest, "/analysis"))
			default:
				http.NotFound(w, r)
			}
		})))
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
