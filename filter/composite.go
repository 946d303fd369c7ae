package filter

import (
	"github.com/hedeqiang/sieve/event"
)

// All matches a log when every child filter matches. An empty All matches
// every log.
type All []Filter

// AllOf is a convenience constructor for AND composition.
func AllOf(filters ...Filter) All {
	return All(filters)
}

// Match applies AND logic to the log.
func (f All) Match(log event.Log) bool {
	for _, child := range f {
		if !child.Match(log) {
			return false
		}
	}
	return true
}

// OneOf matches a log when at least one child filter matches. An empty OneOf
// matches nothing.
type OneOf []Filter

// AnyOf is a convenience constructor for OR composition.
func AnyOf(filters ...Filter) OneOf {
	return OneOf(filters)
}

// Match applies OR logic to the log.
func (f OneOf) Match(log event.Log) bool {
	for _, child := range f {
		if child.Match(log) {
			return true
		}
	}
	return false
}
