// Package sieve watches EVM chains for the transactions that complete an
// atomic swap: the deployment of a known contract, or the emission of a
// known event.
//
// Usage:
//
//	s := sieve.New(sieve.WithLogLevel("debug"))
//	defer s.Shutdown(context.Background())
//
//	s.AddChain(ethereum.New("https://mainnet.infura.io/v3/KEY"))
//
//	ev := filter.NewEvent(htlc, filter.Exactly(redeemed), filter.Any())
//	tx, log, err := s.WatchForEvent(ctx, "ethereum", startOfSwap, ev)
package sieve

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/log"

	"github.com/hedeqiang/sieve/cache"
	"github.com/hedeqiang/sieve/chain"
	"github.com/hedeqiang/sieve/event"
	"github.com/hedeqiang/sieve/filter"
	"github.com/hedeqiang/sieve/internal/syncutil"
	"github.com/hedeqiang/sieve/observer"
	"github.com/hedeqiang/sieve/watcher"
)

// Sieve is the main SDK entry point. It is safe for concurrent use; any
// number of scans may run at the same time, on the same or different chains.
type Sieve struct {
	registry  *chain.Registry
	logger    log.Logger
	observers []observer.Observer
	config    Config
	scans     *syncutil.Group

	mu       sync.Mutex
	matchers map[string]*watcher.Matcher
	shutdown bool
}

// New creates a new Sieve instance with the given options.
// Without WithLogger, scan events go to a terminal logger on stderr at the
// level set by WithLogLevel. An unrecognized level falls back to info and
// is reported as a warning on that logger.
func New(opts ...Option) *Sieve {
	s := &Sieve{
		registry: chain.NewRegistry(),
		config:   DefaultConfig(),
		scans:    syncutil.NewGroup(),
		matchers: make(map[string]*watcher.Matcher),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		level, err := ParseLogLevel(s.config.LogLevel)
		if err != nil {
			level = log.LevelInfo
		}
		s.logger = log.NewLogger(log.NewTerminalHandlerWithLevel(os.Stderr, level, false))
		if err != nil {
			s.logger.Warn("Falling back to info log level", "err", err)
		}
	}
	return s
}

// AddChain registers a connector. Returns ErrChainAlreadyRegistered if the
// chain ID is taken.
func (s *Sieve) AddChain(c chain.Connector) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.shutdown {
		return ErrShutdown
	}
	id := c.ID()
	if _, exists := s.registry.Get(id); exists {
		return fmt.Errorf("%w: %s", ErrChainAlreadyRegistered, id)
	}

	if s.config.CacheSize > 0 {
		cached, err := cache.New(c, s.config.CacheSize)
		if err != nil {
			return fmt.Errorf("sieve: chain %s: %w", id, err)
		}
		c = cached
	}
	if err := s.registry.Register(c); err != nil {
		return err
	}

	obs := append([]observer.Observer{observer.NewLogger(s.logger.With("chain", id))}, s.observers...)
	opts := []watcher.Option{watcher.WithObserver(observer.Chain(obs...))}
	if s.config.Stream.PollInterval > 0 {
		opts = append(opts, watcher.WithStreamConfig(s.config.Stream))
	}
	s.matchers[id] = watcher.NewMatcher(c, opts...)

	s.logger.Debug("Registered chain", "chain", id)
	return nil
}

// Chains returns the IDs of all registered chains.
func (s *Sieve) Chains() []string {
	return s.registry.IDs()
}

// WatchForContractCreation blocks until a transaction deploying bytecode
// succeeds on the given chain at or after startOfSwap, and returns it with
// the address of the new contract.
func (s *Sieve) WatchForContractCreation(ctx context.Context, chainID string, startOfSwap time.Time, bytecode []byte) (event.Transaction, event.Address, error) {
	m, err := s.matcher(chainID)
	if err != nil {
		return event.Transaction{}, event.Address{}, err
	}

	var (
		tx   event.Transaction
		addr event.Address
	)
	err = s.scan(ctx, func(ctx context.Context) (err error) {
		tx, addr, err = m.WatchForContractCreation(ctx, startOfSwap, bytecode)
		return err
	})
	return tx, addr, err
}

// WatchForEvent blocks until a successful transaction on the given chain at
// or after startOfSwap emits a log matching ev, and returns it with the log.
func (s *Sieve) WatchForEvent(ctx context.Context, chainID string, startOfSwap time.Time, ev filter.Event) (event.Transaction, event.Log, error) {
	m, err := s.matcher(chainID)
	if err != nil {
		return event.Transaction{}, event.Log{}, err
	}

	var (
		tx    event.Transaction
		found event.Log
	)
	err = s.scan(ctx, func(ctx context.Context) (err error) {
		tx, found, err = m.WatchForEvent(ctx, startOfSwap, ev)
		return err
	})
	return tx, found, err
}

// Shutdown cancels all running scans and waits for them to return, then
// closes the registered connectors. Scans started afterwards fail with
// ErrShutdown.
func (s *Sieve) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.shutdown = true
	s.mu.Unlock()

	if err := s.scans.Stop(ctx); err != nil {
		return err
	}

	var errs []error
	for _, id := range s.registry.IDs() {
		c, _ := s.registry.Get(id)
		if closer, ok := c.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				errs = append(errs, fmt.Errorf("sieve: close %s: %w", id, err))
			}
		}
	}
	return errors.Join(errs...)
}

func (s *Sieve) matcher(chainID string) (*watcher.Matcher, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.shutdown {
		return nil, ErrShutdown
	}
	m, ok := s.matchers[chainID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrChainNotFound, chainID)
	}
	return m, nil
}

func (s *Sieve) scan(ctx context.Context, fn func(ctx context.Context) error) error {
	err := s.scans.Do(ctx, fn)
	switch {
	case errors.Is(err, syncutil.ErrStopped):
		return ErrShutdown
	case err != nil && s.scans.Stopped() && ctx.Err() == nil:
		return fmt.Errorf("%w: %w", ErrShutdown, err)
	}
	return err
}
