// Package chain provides the connector abstraction the matching engine reads
// blocks and receipts through.
package chain

//go:generate mockgen -source chain.go -destination chain_mocks.go -package chain

import (
	"context"
	"errors"
	"time"

	"github.com/hedeqiang/sieve/event"
)

// ErrNotFound is returned when a node has no block or receipt for a hash.
var ErrNotFound = errors.New("chain: not found")

// BlockSource fetches blocks. It is what the block stream walks.
type BlockSource interface {
	// LatestBlock returns the current head with full transactions.
	LatestBlock(ctx context.Context) (*event.Block, error)

	// BlockByHash returns the block with the given hash with full transactions.
	BlockByHash(ctx context.Context, hash event.Hash) (*event.Block, error)
}

// ReceiptSource fetches transaction receipts.
type ReceiptSource interface {
	// ReceiptByHash returns the receipt of the transaction with the given hash.
	ReceiptByHash(ctx context.Context, txHash event.Hash) (*event.Receipt, error)
}

// Connector is the core abstraction for interacting with a blockchain.
// Each supported chain (Ethereum, BSC, Polygon, etc.) must implement this interface.
// All errors it returns are treated as fatal by the matching engine.
type Connector interface {
	BlockSource
	ReceiptSource

	// ID returns the unique chain identifier (e.g. "ethereum", "bsc", "polygon").
	ID() string
}

// BlockTimer is implemented by connectors that know their chain's average
// block time. It serves as the default interval between head polls.
type BlockTimer interface {
	BlockTime() time.Duration
}
