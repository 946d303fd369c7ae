package sieve

import (
	"time"

	"github.com/ethereum/go-ethereum/log"

	"github.com/hedeqiang/sieve/observer"
)

// Option configures a Sieve instance.
type Option func(*Sieve)

// WithLogger sets the logger scan events are written to. It takes precedence
// over WithLogLevel.
func WithLogger(l log.Logger) Option {
	return func(s *Sieve) {
		s.logger = l
	}
}

// WithLogLevel sets the log verbosity of the default terminal logger.
// Unrecognized names fall back to info; validate user input with
// ParseLogLevel first.
func WithLogLevel(level string) Option {
	return func(s *Sieve) {
		s.config.LogLevel = level
	}
}

// WithObserver adds an observer that receives the events of every scan, in
// addition to the logger.
func WithObserver(o observer.Observer) Option {
	return func(s *Sieve) {
		s.observers = append(s.observers, o)
	}
}

// WithPollInterval sets how often scans poll the chain head.
func WithPollInterval(d time.Duration) Option {
	return func(s *Sieve) {
		s.config.Stream.PollInterval = d
	}
}

// WithCacheSize sets the number of blocks and receipts cached per chain.
// Zero disables caching.
func WithCacheSize(size int) Option {
	return func(s *Sieve) {
		s.config.CacheSize = size
	}
}

// WithConfig replaces the whole configuration.
func WithConfig(cfg Config) Option {
	return func(s *Sieve) {
		s.config = cfg
	}
}
