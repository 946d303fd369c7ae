package sieve

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/ethereum/go-ethereum/log"

	"github.com/hedeqiang/sieve/cache"
	"github.com/hedeqiang/sieve/stream"
)

// Config holds the global configuration for a Sieve instance.
type Config struct {
	// Stream configures the block stream of every scan. A zero poll
	// interval polls once per block time of the chain.
	Stream stream.Config

	// LogLevel controls log verbosity ("trace", "debug", "info", "warn",
	// "error", "crit").
	LogLevel string

	// CacheSize is the number of blocks and receipts cached per chain.
	// Zero disables caching.
	CacheSize int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		LogLevel:  "info",
		CacheSize: cache.DefaultSize,
	}
}

// ParseLogLevel converts a level name into a log level.
func ParseLogLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "trace":
		return log.LevelTrace, nil
	case "debug":
		return log.LevelDebug, nil
	case "", "info":
		return log.LevelInfo, nil
	case "warn", "warning":
		return log.LevelWarn, nil
	case "error":
		return log.LevelError, nil
	case "crit":
		return log.LevelCrit, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidLogLevel, name)
}
