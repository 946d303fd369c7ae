package filter

import (
	"github.com/hedeqiang/sieve/event"
)

// TopicFilter matches logs carrying one of the given hashes at a fixed
// topic position. Positions are never shifted: a value present elsewhere in
// the topic list does not count.
type TopicFilter struct {
	position int
	hashes   map[event.Hash]struct{}
}

// NewTopicFilter creates a filter that matches logs with any of the given
// hashes at the specified topic position (0-based).
func NewTopicFilter(position int, hashes ...event.Hash) *TopicFilter {
	m := make(map[event.Hash]struct{}, len(hashes))
	for _, h := range hashes {
		m[h] = struct{}{}
	}
	return &TopicFilter{position: position, hashes: m}
}

// Match reports whether the log has a matching topic at the configured position.
func (f *TopicFilter) Match(log event.Log) bool {
	if f.position >= len(log.Topics) {
		return false
	}
	_, ok := f.hashes[log.Topics[f.position]]
	return ok
}

// LengthFilter matches logs with exactly that many topics.
type LengthFilter int

// Match reports whether the log's topic count equals the filter.
func (n LengthFilter) Match(log event.Log) bool {
	return len(log.Topics) == int(n)
}

// EmitterFilter matches logs emitted by one contract.
type EmitterFilter event.Address

// Match reports whether the log was emitted by the filter's address.
func (a EmitterFilter) Match(log event.Log) bool {
	return log.Address == event.Address(a)
}
