// Package api implements the HTTP layer of the financial agent. Handlers are
// methods on *Server. Each handler file owns one endpoint and only imports
// the dependencies it actually uses.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/nyashahama/financial-agent-backend/internal/finance"
	"github.com/nyashahama/financial-agent-backend/internal/metrics"
	"github.com/nyashahama/financial-agent-backend/internal/narrative"
	"github.com/nyashahama/financial-agent-backend/internal/tasks"
)

// Config holds values read from environment variables at startup.
type Config struct {
	// AgentType is reported by /health. e.g. "financial"
	AgentType string

	// AllowedOrigins lists CORS origins. "*" allows any origin.
	AllowedOrigins []string
}

// Analyzer produces the financial analysis for receive_message.
// *narrative.Augmenter satisfies it.
type Analyzer interface {
	Analyze(ctx context.Context, profile finance.BusinessProfile, plan finance.StrategicPlan) narrative.Analysis
}

// Dispatcher runs automated tasks. *tasks.Dispatcher satisfies it.
type Dispatcher interface {
	Dispatch(ctx context.Context, d tasks.Descriptor) tasks.Result
}

// Server holds all shared dependencies. Each handler file attaches methods to
// this type and uses only the fields it needs.
type Server struct {
	analyzer   Analyzer
	dispatcher Dispatcher
	metrics    *metrics.Metrics

	cfg    Config
	logger *slog.Logger
	now    func() time.Time
}

// NewServer constructs the Server and wires the chi router. The returned
// http.Handler is ready to pass to http.Server. m may be nil, in which case
// /metrics answers 404.
func NewServer(
	analyzer Analyzer,
	dispatcher Dispatcher,
	m *metrics.Metrics,
	cfg Config,
	logger *slog.Logger,
) http.Handler {
	if cfg.AgentType == "" {
		cfg.AgentType = "financial"
	}
	s := &Server{
		analyzer:   analyzer,
		dispatcher: dispatcher,
		metrics:    m,
		cfg:        cfg,
		logger:     logger,
		now:        time.Now,
	}

	return s.routes()
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	// ── Global middleware ─────────────────────────────────────────────────────
	// No request timeout: an analysis runs until the completion call returns.
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggerMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(s.corsMiddleware)

	// ── Agent endpoints ───────────────────────────────────────────────────────
	r.Post("/receive_message", s.handleReceiveMessage)
	r.Post("/execute_automated_task", s.handleExecuteAutomatedTask)

	// ── Ops ───────────────────────────────────────────────────────────────────
	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	return r
}

// timestamp renders t in the service's local ISO-8601 form.
func (s *Server) timestamp() string {
	return s.now().Format(tasks.TimeLayout)
}
