// Package logger wraps a process-wide zap sugared logger.
package logger

import (
	"sync"

	"go.uber.org/zap"
)

var (
	sugar *zap.SugaredLogger
	once  sync.Once
)

func build(env string) (*zap.Logger, error) {
	switch env {
	case "production":
		return zap.NewProduction()
	case "test":
		return zap.NewNop(), nil
	default:
		cfg := zap.NewDevelopmentConfig()
		cfg.DisableStacktrace = true
		return cfg.Build()
	}
}

// Init sets up the global logger once. "production" logs JSON, "test" logs
// nothing, anything else logs human-readable console output. Later calls
// are no-ops.
func Init(env string) {
	once.Do(func() {
		base, err := build(env)
		if err != nil {
			base = zap.NewNop()
		}
		sugar = base.Sugar()
	})
}

// Get returns the global logger, falling back to a development logger when
// Init was never called.
func Get() *zap.SugaredLogger {
	Init("development")
	return sugar
}

// Named returns the global logger scoped to a component such as "items".
func Named(component string) *zap.SugaredLogger {
	return Get().Named(component)
}

// Sync flushes buffered entries; call it before the process exits.
func Sync() {
	_ = Get().Sync()
}
