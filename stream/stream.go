// Package stream produces the blocks a swap scan has to look at.
//
// A stream never completes successfully: it yields blocks for as long as the
// caller keeps pulling, and its only defined ending is an error, either from
// the connector or from the caller's context.
package stream

import (
	"context"
	"errors"

	"github.com/hedeqiang/sieve/event"
)

// ErrExhausted ends a fixed stream once all of its blocks were pulled.
var ErrExhausted = errors.New("stream: exhausted")

// Blocks is a lazily produced, pull-based sequence of blocks. Each call to
// Next materializes at most one block and may block for an unbounded time.
// A non-nil error is terminal; a stream cannot be restarted, only recreated.
type Blocks interface {
	Next(ctx context.Context) (*event.Block, error)
}

// Func adapts a function to the Blocks interface.
type Func func(ctx context.Context) (*event.Block, error)

// Next calls f.
func (f Func) Next(ctx context.Context) (*event.Block, error) {
	return f(ctx)
}

// Of returns a stream yielding the given blocks in order and then failing
// with end, or ErrExhausted if end is nil.
func Of(end error, blocks ...*event.Block) Blocks {
	if end == nil {
		end = ErrExhausted
	}
	return Func(func(ctx context.Context) (*event.Block, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if len(blocks) == 0 {
			return nil, end
		}
		b := blocks[0]
		blocks = blocks[1:]
		return b, nil
	})
}
