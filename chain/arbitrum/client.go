// Package arbitrum provides the Arbitrum One preset of the Ethereum connector.
package arbitrum

import (
	"time"

	"github.com/hedeqiang/sieve/chain/ethereum"
)

// BlockTime is the Arbitrum One block interval. Heads move far faster than
// is useful to poll for, so this is a polling floor rather than the real rate.
const BlockTime = time.Second

// New creates an Arbitrum connector. Options given later override the preset.
func New(rpcURL string, opts ...ethereum.Option) *ethereum.Client {
	opts = append([]ethereum.Option{ethereum.WithBlockTime(BlockTime)}, opts...)
	return ethereum.NewWithID("arbitrum", rpcURL, opts...)
}
