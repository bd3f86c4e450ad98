package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a zap logger. Development loggers are human readable,
// production loggers emit JSON.
func New(level string, development bool) (*zap.Logger, error) {
	return NewWith(development, func(cfg *zap.Config) {
		if level == "" {
			return
		}
		lvl, err := zapcore.ParseLevel(level)
		if err == nil {
			cfg.Level.SetLevel(lvl)
		}
	})
}

// NewWith returns a logger from a modified zap.Config.
func NewWith(development bool, cfgFn func(*zap.Config)) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if development {
		cfg = zap.NewDevelopmentConfig()
	}
	cfgFn(&cfg)

	lggr, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return lggr, nil
}
