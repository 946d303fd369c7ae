package event

import (
	"errors"
	"time"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/holiman/uint256"
)

// ErrBlockWithoutHash is returned when a block carries no hash. Connectors only
// produce such blocks for a pending head, which the engine cannot work with.
var ErrBlockWithoutHash = errors.New("event: block without hash")

// Block is a block as returned by a connector, with full transaction bodies.
type Block struct {
	// Hash identifies the block. The zero hash means the hash is absent.
	Hash Hash

	// ParentHash links the block to its predecessor.
	ParentHash Hash

	// Number is the block height.
	Number uint64

	// Timestamp is the block time in seconds since the epoch.
	Timestamp uint256.Int

	// Transactions holds the block's transactions in block order.
	Transactions []Transaction

	// LogsBloom summarizes the addresses and topics of every log emitted
	// by the block's transactions.
	LogsBloom types.Bloom
}

// BlockHash returns the block hash, or ErrBlockWithoutHash if it is absent.
func (b *Block) BlockHash() (Hash, error) {
	if b.Hash.IsZero() {
		return Hash{}, ErrBlockWithoutHash
	}
	return b.Hash, nil
}

// Predates reports whether the block was produced strictly before t.
func (b *Block) Predates(t time.Time) bool {
	unix := t.Unix()
	if unix < 0 {
		return false
	}
	return b.Timestamp.Lt(uint256.NewInt(uint64(unix)))
}

// Time returns the block timestamp as a time.Time. Timestamps beyond the
// int64 range saturate.
func (b *Block) Time() time.Time {
	if !b.Timestamp.IsUint64() || b.Timestamp.Uint64() > 1<<63-1 {
		return time.Unix(1<<63-1, 0)
	}
	return time.Unix(int64(b.Timestamp.Uint64()), 0)
}
