// Package bsc provides the BNB Smart Chain preset of the Ethereum connector.
package bsc

import (
	"time"

	"github.com/hedeqiang/sieve/chain/ethereum"
)

// BlockTime is the BSC block interval.
const BlockTime = 3 * time.Second

// New creates a BSC connector. Options given later override the preset.
func New(rpcURL string, opts ...ethereum.Option) *ethereum.Client {
	opts = append([]ethereum.Option{ethereum.WithBlockTime(BlockTime)}, opts...)
	return ethereum.NewWithID("bsc", rpcURL, opts...)
}
