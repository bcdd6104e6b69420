// Package logging provides the process-wide structured logger.
//
// It wraps go.uber.org/zap and exposes a single global logger that is
// initialized once and retrieved via GetLogger. Subsystems obtain loggers
// through this package rather than constructing their own, so level and
// output destination are controlled from one place. Before Init is called,
// GetLogger returns a no-op logger, which keeps library code quiet in tests.
package logging

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logger   = zap.NewNop()
	loggerMu sync.RWMutex
	isInited bool
)

// Config holds logger configuration.
type Config struct {
	Level      string // "debug", "info", "warn" or "error"
	OutputPath string // empty for stderr, or a file path
	Format     string // "json" or "console"
}

// Init initializes the global logger. Call once at startup; a second call
// fails until Close is called.
func Init(config Config) error {
	loggerMu.Lock()
	defer loggerMu.Unlock()

	if isInited {
		return fmt.Errorf("logger already initialized; call Close first to reinitialize")
	}

	level, err := zapcore.ParseLevel(config.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	if config.Format == "console" {
		cfg.Encoding = "console"
		cfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	}
	if config.OutputPath != "" {
		cfg.OutputPaths = []string{config.OutputPath}
	} else {
		cfg.OutputPaths = []string{"stderr"}
	}

	built, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}

	logger = built
	isInited = true
	return nil
}

// Close flushes and resets the global logger to a no-op logger. Safe to call
// multiple times.
func Close() error {
	loggerMu.Lock()
	defer loggerMu.Unlock()

	if !isInited {
		return nil
	}

	err := logger.Sync()
	logger = zap.NewNop()
	isInited = false
	return err
}

// GetLogger returns the current global logger.
func GetLogger() *zap.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return logger
}

// WithTx returns a logger carrying the transaction ID field.
func WithTx(txID int64) *zap.Logger {
	return GetLogger().With(zap.Int64("tx_id", txID))
}

// WithTable returns a logger carrying the table ID field.
func WithTable(tableID uint64) *zap.Logger {
	return GetLogger().With(zap.Uint64("table_id", tableID))
}

// WithPage returns a logger carrying table and page fields.
func WithPage(tableID, pageNo uint64) *zap.Logger {
	return GetLogger().With(zap.Uint64("table_id", tableID), zap.Uint64("page_no", pageNo))
}

// WithComponent returns a logger carrying the component field.
func WithComponent(component string) *zap.Logger {
	return GetLogger().With(zap.String("component", component))
}
