package observer

import (
	"sync/atomic"

	"github.com/hedeqiang/sieve/event"
)

// Metrics counts scan events. It is safe to share between concurrent scans.
type Metrics struct {
	skipped atomic.Uint64
	checked atomic.Uint64
	failed  atomic.Uint64
	matched atomic.Uint64
}

// NewMetrics creates a counting observer.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// BlockSkipped increments the Skipped counter.
func (m *Metrics) BlockSkipped(*event.Block) { m.skipped.Add(1) }

// BlockChecked increments the Checked counter.
func (m *Metrics) BlockChecked(*event.Block) { m.checked.Add(1) }

// StatusNotOK increments the Failed counter.
func (m *Metrics) StatusNotOK(*event.Transaction) { m.failed.Add(1) }

// Matched increments the MatchCount counter.
func (m *Metrics) Matched(*event.Transaction) { m.matched.Add(1) }

// Skipped returns the number of blocks ruled out by the bloom pre-filter.
func (m *Metrics) Skipped() uint64 {
	return m.skipped.Load()
}

// Checked returns the number of blocks whose transactions were examined.
func (m *Metrics) Checked() uint64 {
	return m.checked.Load()
}

// Failed returns the number of structural matches discarded for their status.
func (m *Metrics) Failed() uint64 {
	return m.failed.Load()
}

// MatchCount returns the number of completed scans.
func (m *Metrics) MatchCount() uint64 {
	return m.matched.Load()
}
