// Package filter selects the logs a swap is waiting for: event patterns,
// the per-log filters they compile to, and the block-level bloom pre-filter.
package filter

import (
	"fmt"
	"strings"

	"github.com/hedeqiang/sieve/event"
)

// Filter determines whether a log matches a given criteria.
type Filter interface {
	Match(log event.Log) bool
}

// Event selects logs emitted by one contract with position-aligned topics,
// similar to web3 log filters. A nil entry in Topics is a wildcard.
//
// For example, the event
//
//	Event{
//	    Address: 0xe46FB33e4DB653De84cB0E0E8b810A6c4cD39d59,
//	    Topics:  [nil, 0x…e46fb33e4db653de84cb0e0e8b810a6c4cd39d59, nil],
//	}
//
// matches any log of that contract carrying exactly three topics whose second
// topic is the given value.
type Event struct {
	Address event.Address
	Topics  []*event.Hash
}

// NewEvent creates an event pattern. Use Any for wildcard positions and
// Exactly for required values.
func NewEvent(addr event.Address, topics ...*event.Hash) Event {
	return Event{Address: addr, Topics: topics}
}

// Any is the wildcard topic, matching every value at its position.
func Any() *event.Hash {
	return nil
}

// Exactly returns a topic entry requiring the given value.
func Exactly(h event.Hash) *event.Hash {
	return &h
}

// Filter compiles the event into a log filter. An event without topics
// compiles to a filter that matches nothing.
func (e Event) Filter() Filter {
	if len(e.Topics) == 0 {
		return OneOf{}
	}
	f := All{
		EmitterFilter(e.Address),
		LengthFilter(len(e.Topics)),
	}
	for i, topic := range e.Topics {
		if topic != nil {
			f = append(f, NewTopicFilter(i, *topic))
		}
	}
	return f
}

// Match reports whether the log satisfies the event.
func (e Event) Match(log event.Log) bool {
	return e.Filter().Match(log)
}

// String renders the event with "_" for wildcards.
func (e Event) String() string {
	topics := make([]string, len(e.Topics))
	for i, t := range e.Topics {
		if t == nil {
			topics[i] = "_"
		} else {
			topics[i] = t.Hex()
		}
	}
	return fmt.Sprintf("%s[%s]", e.Address.Hex(), strings.Join(topics, ","))
}

// FindLog returns the first log of the receipt, in emission order, that
// satisfies the event. An event without topics matches nothing.
func FindLog(e Event, receipt *event.Receipt) (event.Log, bool) {
	f := e.Filter()
	for _, log := range receipt.Logs {
		if f.Match(log) {
			return log, true
		}
	}
	return event.Log{}, false
}
