// Package config loads and validates all environment variables at startup.
// Every other package receives typed values; nothing reads os.Getenv directly.
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the fully-parsed application configuration.
type Config struct {
	// ── Server ────────────────────────────────────────────────────────────────
	Port               string   // default "5003"
	Env                string   // "development" | "production"
	LogLevel           string   // debug | info | warn | error
	AgentType          string   // reported by GET /health, default "financial"
	CORSAllowedOrigins []string // default ["*"]

	// ── OpenAI-compatible ─────────────────────────────────────────────────────
	// Primary provider when set. OPENAI_BASE_URL points it at any compatible
	// endpoint.
	OpenAIAPIKey  string
	OpenAIModel   string // default "gpt-3.5-turbo"
	OpenAIBaseURL string

	// ── Anthropic ─────────────────────────────────────────────────────────────
	AnthropicAPIKey string
	AnthropicModel  string // default "claude-3-5-haiku-latest"

	// ── Gemini ────────────────────────────────────────────────────────────────
	GeminiAPIKey string
	GeminiModel  string // default "gemini-2.0-flash"

	// CompletionTimeout bounds a single provider call.
	CompletionTimeout time.Duration // default 90s
}

var defaults = map[string]any{
	"PORT":                 "5003",
	"ENV":                  "development",
	"LOG_LEVEL":            "info",
	"AGENT_TYPE":           "financial",
	"CORS_ALLOWED_ORIGINS": "*",
	"OPENAI_MODEL":         "gpt-3.5-turbo",
	"ANTHROPIC_MODEL":      "claude-3-5-haiku-latest",
	"GEMINI_MODEL":         "gemini-2.0-flash",
	"COMPLETION_TIMEOUT":   "90s",
}

// Load reads all environment variables and returns a validated Config.
// A .env file in the working directory is loaded first when present; real
// environment variables always take precedence over its values.
func Load() (*Config, error) {
	// godotenv.Load never overrides variables that are already set.
	_ = godotenv.Load(".env")
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// FromViper builds a Config from an already-populated viper instance. Tests
// use it with v.Set instead of touching the process environment.
func FromViper(v *viper.Viper) (*Config, error) {
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	c := &Config{
		Port:               v.GetString("PORT"),
		Env:                v.GetString("ENV"),
		LogLevel:           strings.ToLower(v.GetString("LOG_LEVEL")),
		AgentType:          v.GetString("AGENT_TYPE"),
		CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		OpenAIAPIKey:       v.GetString("OPENAI_API_KEY"),
		OpenAIModel:        v.GetString("OPENAI_MODEL"),
		OpenAIBaseURL:      v.GetString("OPENAI_BASE_URL"),
		AnthropicAPIKey:    v.GetString("ANTHROPIC_API_KEY"),
		AnthropicModel:     v.GetString("ANTHROPIC_MODEL"),
		GeminiAPIKey:       v.GetString("GEMINI_API_KEY"),
		GeminiModel:        v.GetString("GEMINI_MODEL"),
		CompletionTimeout:  parseTimeout(v.GetString("COMPLETION_TIMEOUT")),
	}

	return c, c.validate()
}

// IsProduction reports whether ENV is "production".
func (c *Config) IsProduction() bool { return c.Env == "production" }

// Providers lists the configured completion providers in failover order.
func (c *Config) Providers() []string {
	var out []string
	if c.OpenAIAPIKey != "" {
		out = append(out, "openai")
	}
	if c.AnthropicAPIKey != "" {
		out = append(out, "anthropic")
	}
	if c.GeminiAPIKey != "" {
		out = append(out, "gemini")
	}
	return out
}

func (c *Config) validate() error {
	var errs []error

	if p, err := strconv.Atoi(c.Port); err != nil || p < 1 || p > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be a number between 1 and 65535, got %q", c.Port))
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error, got %q", c.LogLevel))
	}

	if c.CompletionTimeout <= 0 {
		errs = append(errs, errors.New("COMPLETION_TIMEOUT must be a positive duration"))
	}

	// No provider key is required: without one every analysis degrades to
	// the deterministic fallback report.

	return errors.Join(errs...)
}

// ─── HELPERS ─────────────────────────────────────────────────────────────────

// parseTimeout accepts Go duration syntax ("90s", "2m") or a plain integer
// number of seconds. Anything unparseable yields 0, which validate rejects.
func parseTimeout(s string) time.Duration {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return time.Duration(n) * time.Second
	}
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	return 0
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
