package stream

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/hedeqiang/sieve/chain"
	"github.com/hedeqiang/sieve/event"
)

// Config configures a Relevant stream.
type Config struct {
	// PollInterval is the pause between head polls once the stream has
	// caught up with the chain.
	PollInterval time.Duration
}

// DefaultConfig returns sensible defaults for polling.
func DefaultConfig() Config {
	return Config{
		PollInterval: 2 * time.Second,
	}
}

// Relevant yields every block produced at or after the start of a swap, in
// chain order, and keeps following the head.
//
// The first pull walks parent links back from the head until it reaches a
// block that predates the start (or genesis) and yields that segment oldest
// first. Once drained, it polls the head and yields each new segment the same
// way, stopping the walk at the first block it has already yielded. Blocks of
// a reorganized branch therefore show up as new blocks.
//
// A Relevant stream belongs to a single scan and is not safe for concurrent use.
type Relevant struct {
	src         chain.BlockSource
	startOfSwap time.Time
	config      Config

	seen    map[event.Hash]struct{}
	pending []*event.Block
	started bool
}

// NewRelevant creates a stream over src for a swap started at startOfSwap.
func NewRelevant(src chain.BlockSource, startOfSwap time.Time, cfg Config) *Relevant {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultConfig().PollInterval
	}
	return &Relevant{
		src:         src,
		startOfSwap: startOfSwap,
		config:      cfg,
		seen:        make(map[event.Hash]struct{}),
	}
}

// Next returns the next relevant block, polling the head as needed.
func (r *Relevant) Next(ctx context.Context) (*event.Block, error) {
	for len(r.pending) == 0 {
		if r.started {
			if err := wait(ctx, r.config.PollInterval); err != nil {
				return nil, err
			}
		}
		r.started = true

		if err := r.advance(ctx); err != nil {
			return nil, err
		}
	}

	b := r.pending[0]
	r.pending[0] = nil
	r.pending = r.pending[1:]
	return b, nil
}

// advance queues the blocks between the current head and the last yielded
// (or last predating) block.
func (r *Relevant) advance(ctx context.Context) error {
	latest, err := r.src.LatestBlock(ctx)
	if err != nil {
		return fmt.Errorf("stream: latest block: %w", err)
	}

	var segment []*event.Block
	for b := latest; ; {
		hash, err := b.BlockHash()
		if err != nil {
			return fmt.Errorf("stream: block %d: %w", b.Number, err)
		}
		if _, ok := r.seen[hash]; ok || b.Predates(r.startOfSwap) {
			break
		}
		r.seen[hash] = struct{}{}
		segment = append(segment, b)

		parent := b.ParentHash
		if _, ok := r.seen[parent]; ok || parent.IsZero() {
			break
		}
		if b, err = r.src.BlockByHash(ctx, parent); err != nil {
			return fmt.Errorf("stream: block %s: %w", parent, err)
		}
	}

	slices.Reverse(segment)
	r.pending = append(r.pending, segment...)
	return nil
}

func wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
