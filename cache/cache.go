// Package cache wraps a chain connector with in-memory LRU caches.
package cache

import (
	"context"
	"fmt"
	"io"
	"time"

	lru "github.com/hashicorp/golang-lru"

	"github.com/hedeqiang/sieve/chain"
	"github.com/hedeqiang/sieve/event"
)

// DefaultSize is the number of blocks and receipts kept by default.
const DefaultSize = 1024

// Connector serves blocks by hash and receipts from memory when it can.
// The latest block is always forwarded, since it changes over time.
//
// Blocks are keyed by their hash and never change. Receipts are keyed by
// transaction hash; a transaction re-included after a reorg may therefore be
// served with the receipt of its first inclusion.
type Connector struct {
	chain.Connector

	blocks   *lru.Cache
	receipts *lru.Cache
}

var _ chain.Connector = (*Connector)(nil)

// New wraps c with caches holding up to size blocks and size receipts.
func New(c chain.Connector, size int) (*Connector, error) {
	if size <= 0 {
		size = DefaultSize
	}
	blocks, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("cache: %w", err)
	}
	receipts, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("cache: %w", err)
	}
	return &Connector{
		Connector: c,
		blocks:    blocks,
		receipts:  receipts,
	}, nil
}

// BlockByHash returns a cached block or fetches and caches it.
func (c *Connector) BlockByHash(ctx context.Context, hash event.Hash) (*event.Block, error) {
	if cached, ok := c.blocks.Get(hash); ok {
		return cached.(*event.Block), nil
	}
	b, err := c.Connector.BlockByHash(ctx, hash)
	if err != nil {
		return nil, err
	}
	c.blocks.Add(hash, b)
	return b, nil
}

// ReceiptByHash returns a cached receipt or fetches and caches it.
func (c *Connector) ReceiptByHash(ctx context.Context, txHash event.Hash) (*event.Receipt, error) {
	if cached, ok := c.receipts.Get(txHash); ok {
		return cached.(*event.Receipt), nil
	}
	r, err := c.Connector.ReceiptByHash(ctx, txHash)
	if err != nil {
		return nil, err
	}
	c.receipts.Add(txHash, r)
	return r, nil
}

// BlockTime forwards the block time of the wrapped connector, if it has one.
func (c *Connector) BlockTime() time.Duration {
	if bt, ok := c.Connector.(chain.BlockTimer); ok {
		return bt.BlockTime()
	}
	return 0
}

// Close closes the wrapped connector if it holds resources.
func (c *Connector) Close() error {
	if closer, ok := c.Connector.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// Len returns the number of cached blocks and receipts.
func (c *Connector) Len() (blocks, receipts int) {
	return c.blocks.Len(), c.receipts.Len()
}
