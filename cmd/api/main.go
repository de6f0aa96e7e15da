package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nyashahama/financial-agent-backend/internal/ai"
	"github.com/nyashahama/financial-agent-backend/internal/api"
	"github.com/nyashahama/financial-agent-backend/internal/config"
	"github.com/nyashahama/financial-agent-backend/internal/logging"
	"github.com/nyashahama/financial-agent-backend/internal/metrics"
	"github.com/nyashahama/financial-agent-backend/internal/narrative"
	"github.com/nyashahama/financial-agent-backend/internal/tasks"
)

var rootCmd = &cobra.Command{
	Use:   "api",
	Short: "Financial analysis agent",
	Long: `api serves the financial agent over HTTP: /receive_message produces a
financial report with an AI narrative, /execute_automated_task runs
scheduled review and budget tasks, /health and /metrics are for operators.

Running 'api' without a subcommand starts the server.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return serve(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(estimateCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}

func serve(ctx context.Context) error {
	// ── Config ────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	// ── Logger ────────────────────────────────────────────────────────────────
	// JSON in production, console in development.
	logger, zl, err := logging.New(cfg.IsProduction(), cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = zl.Sync() }()
	slog.SetDefault(logger)

	logger.Info("config loaded", "env", cfg.Env, "port", cfg.Port, "providers", cfg.Providers())

	// ── Metrics ───────────────────────────────────────────────────────────────
	m := metrics.New()

	// ── AI ────────────────────────────────────────────────────────────────────
	completer, err := newCompleter(ctx, cfg, m, logger)
	if err != nil {
		return fmt.Errorf("ai: %w", err)
	}

	// ── HTTP server ───────────────────────────────────────────────────────────
	handler := api.NewServer(
		narrative.New(completer, logger, m),
		tasks.NewDispatcher(completer, logger, m),
		m,
		api.Config{
			AgentType:      cfg.AgentType,
			AllowedOrigins: cfg.CORSAllowedOrigins,
		},
		logger,
	)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      writeTimeout(cfg.CompletionTimeout),
		IdleTimeout:       120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// ── Graceful shutdown ─────────────────────────────────────────────────────
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	}

	// In-flight analyses get the full completion timeout to finish.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.CompletionTimeout+5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("shutdown complete")
	return nil
}

// writeTimeout leaves room for a failed primary and a failed secondary call,
// each running to the completion timeout, before the fallback report is
// written.
func writeTimeout(completion time.Duration) time.Duration {
	return 2*completion + 10*time.Second
}

// newCompleter builds the completion chain from the configured providers.
// The first configured provider is primary and the second, if any, is tried
// once when the primary fails. With no provider every analysis degrades to
// the fallback report.
func newCompleter(ctx context.Context, cfg *config.Config, m *metrics.Metrics, logger *slog.Logger) (ai.Completer, error) {
	var chain []ai.Completer
	for _, name := range cfg.Providers() {
		var (
			c   ai.Completer
			err error
		)
		switch name {
		case "openai":
			c = ai.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL, cfg.CompletionTimeout)
		case "anthropic":
			c = ai.NewAnthropicClient(cfg.AnthropicAPIKey, cfg.AnthropicModel, "", cfg.CompletionTimeout)
		case "gemini":
			c, err = ai.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.CompletionTimeout)
		}
		if err != nil {
			return nil, err
		}
		chain = append(chain, ai.Instrument(c, name, m))
	}

	switch len(chain) {
	case 0:
		logger.Warn("ai: no provider configured, every analysis will use the fallback report")
		return ai.Unavailable(), nil
	case 1:
		logger.Info("ai: single provider", "provider", cfg.Providers()[0])
		return chain[0], nil
	default:
		logger.Info("ai: provider failover",
			"primary", cfg.Providers()[0],
			"secondary", cfg.Providers()[1],
		)
		return ai.NewFallbackCompleter(chain[0], chain[1], logger), nil
	}
}
