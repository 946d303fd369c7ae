// Package ethereum provides the Ethereum JSON-RPC implementation of chain.Connector.
package ethereum

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/hedeqiang/sieve/chain"
	"github.com/hedeqiang/sieve/event"
	"github.com/hedeqiang/sieve/retry"
	"github.com/hedeqiang/sieve/transport"
)

// DefaultBlockTime is Ethereum's slot time since the merge.
const DefaultBlockTime = 12 * time.Second

// Client is an Ethereum connector.
type Client struct {
	id        string
	transport transport.Transport
	retry     retry.Strategy
	breaker   *retry.CircuitBreaker
	blockTime time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithRetry retries failed RPC calls according to the strategy.
func WithRetry(s retry.Strategy) Option {
	return func(c *Client) {
		c.retry = s
	}
}

// WithCircuitBreaker rejects calls while the node keeps failing.
func WithCircuitBreaker(cb *retry.CircuitBreaker) Option {
	return func(c *Client) {
		c.breaker = cb
	}
}

// WithBlockTime sets the chain's average block time.
func WithBlockTime(d time.Duration) Option {
	return func(c *Client) {
		c.blockTime = d
	}
}

// New creates an Ethereum client with the given RPC endpoint.
func New(rpcURL string, opts ...Option) *Client {
	return NewWithID("ethereum", rpcURL, opts...)
}

// NewWithID creates an Ethereum-compatible client with a custom chain ID.
// This allows reuse for EVM-compatible chains (BSC, Polygon, etc.).
// ws:// and wss:// URLs use a WebSocket transport, anything else HTTP.
func NewWithID(id, rpcURL string, opts ...Option) *Client {
	var t transport.Transport
	if strings.HasPrefix(rpcURL, "ws://") || strings.HasPrefix(rpcURL, "wss://") {
		t = transport.NewWebSocket(rpcURL)
	} else {
		t = transport.NewHTTP(rpcURL)
	}
	return NewWithTransport(id, t, opts...)
}

// NewWithTransport creates an Ethereum client with a custom transport.
func NewWithTransport(id string, t transport.Transport, opts ...Option) *Client {
	c := &Client{
		id:        id,
		transport: t,
		blockTime: DefaultBlockTime,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ID returns the chain identifier.
func (c *Client) ID() string {
	return c.id
}

// BlockTime returns the chain's average block time.
func (c *Client) BlockTime() time.Duration {
	return c.blockTime
}

// Close releases the underlying transport.
func (c *Client) Close() error {
	return c.transport.Close()
}

// LatestBlock returns the current head with full transactions.
func (c *Client) LatestBlock(ctx context.Context) (*event.Block, error) {
	var rb rpcBlock
	if err := c.call(ctx, &rb, "eth_getBlockByNumber", "latest", true); err != nil {
		return nil, fmt.Errorf("ethereum: eth_getBlockByNumber: %w", err)
	}
	b, err := rb.toBlock()
	if err != nil {
		return nil, fmt.Errorf("ethereum: convert latest block: %w", err)
	}
	return b, nil
}

// BlockByHash returns the block with the given hash with full transactions.
func (c *Client) BlockByHash(ctx context.Context, hash event.Hash) (*event.Block, error) {
	var rb rpcBlock
	if err := c.call(ctx, &rb, "eth_getBlockByHash", hash.Hex(), true); err != nil {
		return nil, fmt.Errorf("ethereum: eth_getBlockByHash %s: %w", hash, err)
	}
	b, err := rb.toBlock()
	if err != nil {
		return nil, fmt.Errorf("ethereum: convert block %s: %w", hash, err)
	}
	return b, nil
}

// ReceiptByHash returns the receipt of the given transaction.
func (c *Client) ReceiptByHash(ctx context.Context, txHash event.Hash) (*event.Receipt, error) {
	var rr rpcReceipt
	if err := c.call(ctx, &rr, "eth_getTransactionReceipt", txHash.Hex()); err != nil {
		return nil, fmt.Errorf("ethereum: eth_getTransactionReceipt %s: %w", txHash, err)
	}
	r, err := rr.toReceipt()
	if err != nil {
		return nil, fmt.Errorf("ethereum: convert receipt %s: %w", txHash, err)
	}
	return r, nil
}

// call performs one JSON-RPC call under the retry strategy and circuit
// breaker and decodes the result into out. A null result is chain.ErrNotFound.
func (c *Client) call(ctx context.Context, out interface{}, method string, params ...interface{}) error {
	return retry.Do(ctx, c.retry, func(ctx context.Context) error {
		attempt := func() error {
			result, err := c.transport.Call(ctx, method, params...)
			if err != nil {
				return err
			}
			if bytes.Equal(bytes.TrimSpace(result), []byte("null")) {
				return retry.Permanent(chain.ErrNotFound)
			}
			if err := json.Unmarshal(result, out); err != nil {
				return retry.Permanent(fmt.Errorf("parse result: %w", err))
			}
			return nil
		}
		if c.breaker == nil {
			return attempt()
		}
		err := c.breaker.Execute(attempt)
		if err == retry.ErrCircuitOpen {
			return retry.Permanent(err)
		}
		return err
	})
}
