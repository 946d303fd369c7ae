package filter

import (
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/hedeqiang/sieve/event"
)

// HasRequiredTopics reports whether at least one topic entry is not a
// wildcard, i.e. whether a bloom test can rule anything out.
func HasRequiredTopics(topics []*event.Hash) bool {
	for _, t := range topics {
		if t != nil {
			return true
		}
	}
	return false
}

// MaybeContains tests the required topics against a block's log bloom.
// It returns false only if some required topic is definitely absent from
// the block; wildcards are vacuously satisfied. Bloom filters admit false
// positives, so true only means the block has to be inspected.
func MaybeContains(bloom types.Bloom, topics []*event.Hash) bool {
	for _, t := range topics {
		if t != nil && !bloom.Test(t.Bytes()) {
			return false
		}
	}
	return true
}

// MaybeIn applies MaybeContains to the event's topics.
func (e Event) MaybeIn(bloom types.Bloom) bool {
	return MaybeContains(bloom, e.Topics)
}
