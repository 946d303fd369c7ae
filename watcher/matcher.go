// Package watcher finds the transaction that completes one side of a swap.
//
// A Matcher scans the blocks produced since the swap started, in chain order,
// and returns the first transaction that satisfies a predicate and executed
// successfully. Scans run until a match is found, the connector fails or the
// caller's context is done.
package watcher

import (
	"context"
	"fmt"
	"time"

	"github.com/hedeqiang/sieve/chain"
	"github.com/hedeqiang/sieve/event"
	"github.com/hedeqiang/sieve/filter"
	"github.com/hedeqiang/sieve/observer"
	"github.com/hedeqiang/sieve/stream"
)

// BlocksFunc creates the block stream of a single scan.
type BlocksFunc func(ctx context.Context, startOfSwap time.Time) stream.Blocks

// Matcher scans a single chain. It holds no per-scan state and is safe for
// concurrent use.
type Matcher struct {
	conn     chain.Connector
	observer observer.Observer
	config   stream.Config
	blocks   BlocksFunc
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithObserver sets the observer scan events are reported to.
func WithObserver(o observer.Observer) Option {
	return func(m *Matcher) {
		if o != nil {
			m.observer = o
		}
	}
}

// WithStreamConfig sets the configuration of the default block stream.
func WithStreamConfig(cfg stream.Config) Option {
	return func(m *Matcher) {
		m.config = cfg
	}
}

// WithPollInterval sets how often the default block stream polls the head.
func WithPollInterval(d time.Duration) Option {
	return func(m *Matcher) {
		m.config.PollInterval = d
	}
}

// WithBlocks replaces the default block stream.
func WithBlocks(fn BlocksFunc) Option {
	return func(m *Matcher) {
		m.blocks = fn
	}
}

// NewMatcher creates a Matcher over the given connector. Unless configured
// otherwise, the head is polled once per block time of the chain.
func NewMatcher(c chain.Connector, opts ...Option) *Matcher {
	m := &Matcher{
		conn:     c,
		observer: observer.Nop{},
		config:   stream.DefaultConfig(),
	}
	if bt, ok := c.(chain.BlockTimer); ok && bt.BlockTime() > 0 {
		m.config.PollInterval = bt.BlockTime()
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.blocks == nil {
		m.blocks = func(_ context.Context, startOfSwap time.Time) stream.Blocks {
			return stream.NewRelevant(m.conn, startOfSwap, m.config)
		}
	}
	return m
}

// MatchTransaction returns the first transaction, in stream order and then
// block order, for which match holds and whose receipt reports success.
// Transactions that match but failed are reported to the observer and
// skipped.
func (m *Matcher) MatchTransaction(ctx context.Context, startOfSwap time.Time, match func(*event.Transaction) bool) (event.Transaction, event.Receipt, error) {
	blocks := m.blocks(ctx, startOfSwap)
	for {
		b, err := blocks.Next(ctx)
		if err != nil {
			return event.Transaction{}, event.Receipt{}, err
		}
		m.observer.BlockChecked(b)

		for i := range b.Transactions {
			tx := &b.Transactions[i]
			if !match(tx) {
				continue
			}
			receipt, err := m.receipt(ctx, tx)
			if err != nil {
				return event.Transaction{}, event.Receipt{}, err
			}
			if !receipt.IsStatusOK() {
				m.observer.StatusNotOK(tx)
				continue
			}
			m.observer.Matched(tx)
			return *tx, *receipt, nil
		}
	}
}

// MatchReceipt returns the first transaction whose receipt satisfies match
// and reports success, together with the log match selected.
//
// If topics has a non-wildcard entry, blocks whose bloom rules the topics out
// are skipped without fetching any receipt. Otherwise the receipt of every
// transaction is fetched.
func (m *Matcher) MatchReceipt(ctx context.Context, startOfSwap time.Time, topics []*event.Hash, match func(*event.Receipt) (event.Log, bool)) (event.Transaction, event.Log, error) {
	useBloom := filter.HasRequiredTopics(topics)

	blocks := m.blocks(ctx, startOfSwap)
	for {
		b, err := blocks.Next(ctx)
		if err != nil {
			return event.Transaction{}, event.Log{}, err
		}
		if _, err := b.BlockHash(); err != nil {
			return event.Transaction{}, event.Log{}, fmt.Errorf("watcher: block %d: %w", b.Number, err)
		}
		if useBloom && !filter.MaybeContains(b.LogsBloom, topics) {
			m.observer.BlockSkipped(b)
			continue
		}
		m.observer.BlockChecked(b)

		for i := range b.Transactions {
			tx := &b.Transactions[i]
			receipt, err := m.receipt(ctx, tx)
			if err != nil {
				return event.Transaction{}, event.Log{}, err
			}
			log, ok := match(receipt)
			if !ok {
				continue
			}
			if !receipt.IsStatusOK() {
				m.observer.StatusNotOK(tx)
				continue
			}
			m.observer.Matched(tx)
			return *tx, log, nil
		}
	}
}

func (m *Matcher) receipt(ctx context.Context, tx *event.Transaction) (*event.Receipt, error) {
	r, err := m.conn.ReceiptByHash(ctx, tx.Hash)
	if err != nil {
		return nil, fmt.Errorf("watcher: receipt of %s: %w", tx.Hash, err)
	}
	return r, nil
}
