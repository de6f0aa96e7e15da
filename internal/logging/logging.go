// Package logging builds the process logger: a zap core exposed through
// *slog.Logger so call sites stay on the standard slog API.
package logging

import (
	"fmt"
	"log/slog"

	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
	"go.uber.org/zap/zapcore"
)

// New returns a slog logger backed by zap plus the underlying zap logger so
// main can Sync it on exit. Production uses the JSON encoder; anything else
// gets the development console encoder.
func New(production bool, level string) (*slog.Logger, *zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, nil, fmt.Errorf("logging: parse level: %w", err)
	}

	var cfg zap.Config
	if production {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level.SetLevel(lvl)

	lg, err := cfg.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("logging: build zap logger: %w", err)
	}

	lg = lg.With(zap.String("service", "financial-agent"))
	return FromZap(lg), lg, nil
}

// FromZap wraps an existing zap logger.
func FromZap(lg *zap.Logger) *slog.Logger {
	return slog.New(zapslog.NewHandler(lg.Core()))
}
