// Package chaintest provides an in-memory chain.Connector for tests.
package chaintest

import (
	"context"
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/holiman/uint256"

	"github.com/hedeqiang/sieve/chain"
	"github.com/hedeqiang/sieve/event"
)

// Chain is a linear in-memory chain. Blocks are linked by parent hash and
// receipts are served for every transaction added through Mine.
type Chain struct {
	mu       sync.Mutex
	id       string
	blocks   []*event.Block
	byHash   map[event.Hash]*event.Block
	receipts map[event.Hash]*event.Receipt

	// Err, when set, is returned by every call.
	Err error

	LatestCalls  int
	BlockCalls   int
	ReceiptCalls []event.Hash
}

// New creates an empty chain with the given ID.
func New(id string) *Chain {
	return &Chain{
		id:       id,
		byHash:   make(map[event.Hash]*event.Block),
		receipts: make(map[event.Hash]*event.Receipt),
	}
}

// Tx pairs a transaction with the receipt the chain serves for it.
type Tx struct {
	Transaction event.Transaction
	Receipt     event.Receipt
}

// Mine appends a block with the given timestamp and transactions and returns
// it. Transaction hashes are taken as given; receipts get their TxHash set and
// the block bloom covers every receipt log.
func (c *Chain) Mine(timestamp uint64, txs ...Tx) *event.Block {
	c.mu.Lock()
	defer c.mu.Unlock()

	number := uint64(len(c.blocks))
	b := &event.Block{
		Hash:      BlockHash(number),
		Number:    number,
		Timestamp: *uint256.NewInt(timestamp),
	}
	if number > 0 {
		b.ParentHash = c.blocks[number-1].Hash
	}
	for i, tx := range txs {
		t := tx.Transaction
		t.BlockHash = b.Hash
		t.BlockNumber = number
		t.Index = uint(i)
		b.Transactions = append(b.Transactions, t)

		r := tx.Receipt
		r.TxHash = t.Hash
		r.BlockHash = b.Hash
		r.BlockNumber = number
		for _, log := range r.Logs {
			b.LogsBloom.Add(log.Address.Bytes())
			for _, topic := range log.Topics {
				b.LogsBloom.Add(topic.Bytes())
			}
		}
		c.receipts[t.Hash] = &r
	}
	c.blocks = append(c.blocks, b)
	c.byHash[b.Hash] = b
	return b
}

// BlockHash is the hash the chain assigns to the block at the given height.
func BlockHash(number uint64) event.Hash {
	var h event.Hash
	h[0] = 0xb1
	binary.BigEndian.PutUint64(h[24:], number)
	return h
}

// TxHash builds a recognizable transaction hash.
func TxHash(n uint64) event.Hash {
	var h event.Hash
	h[0] = 0x7c
	binary.BigEndian.PutUint64(h[24:], n)
	return h
}

// ID returns the chain identifier.
func (c *Chain) ID() string {
	return c.id
}

// LatestBlock returns the most recently mined block.
func (c *Chain) LatestBlock(context.Context) (*event.Block, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.LatestCalls++
	if c.Err != nil {
		return nil, c.Err
	}
	if len(c.blocks) == 0 {
		return nil, fmt.Errorf("chaintest: empty chain")
	}
	return c.blocks[len(c.blocks)-1], nil
}

// BlockByHash returns a mined block.
func (c *Chain) BlockByHash(_ context.Context, hash event.Hash) (*event.Block, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.BlockCalls++
	if c.Err != nil {
		return nil, c.Err
	}
	b, ok := c.byHash[hash]
	if !ok {
		return nil, chain.ErrNotFound
	}
	return b, nil
}

// ReceiptByHash returns the receipt of a mined transaction.
func (c *Chain) ReceiptByHash(_ context.Context, txHash event.Hash) (*event.Receipt, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ReceiptCalls = append(c.ReceiptCalls, txHash)
	if c.Err != nil {
		return nil, c.Err
	}
	r, ok := c.receipts[txHash]
	if !ok {
		return nil, chain.ErrNotFound
	}
	return r, nil
}

// SetErr makes every subsequent call fail with err.
func (c *Chain) SetErr(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Err = err
}

// Receipts returns the hashes of all receipt lookups so far.
func (c *Chain) Receipts() []event.Hash {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]event.Hash(nil), c.ReceiptCalls...)
}

// Calls returns the number of LatestBlock and BlockByHash calls so far.
func (c *Chain) Calls() (latest, byHash int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.LatestCalls, c.BlockCalls
}
