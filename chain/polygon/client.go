// Package polygon provides the Polygon PoS preset of the Ethereum connector.
package polygon

import (
	"time"

	"github.com/hedeqiang/sieve/chain/ethereum"
)

// BlockTime is the Polygon PoS block interval.
const BlockTime = 2 * time.Second

// New creates a Polygon connector. Options given later override the preset.
func New(rpcURL string, opts ...ethereum.Option) *ethereum.Client {
	opts = append([]ethereum.Option{ethereum.WithBlockTime(BlockTime)}, opts...)
	return ethereum.NewWithID("polygon", rpcURL, opts...)
}
