// Package observer provides the hooks the matching engine reports its
// progress through, so that the scan itself stays free of logging and metrics.
package observer

import (
	"github.com/hedeqiang/sieve/event"
)

// Observer receives structured events from a scan. Implementations must not
// block; they run on the scanning goroutine.
type Observer interface {
	// BlockSkipped is called when the bloom pre-filter rules a block out.
	BlockSkipped(block *event.Block)

	// BlockChecked is called before a block's transactions are examined.
	BlockChecked(block *event.Block)

	// StatusNotOK is called when a transaction matched structurally but its
	// receipt reports failed execution. The scan continues.
	StatusNotOK(tx *event.Transaction)

	// Matched is called once with the transaction a scan returns.
	Matched(tx *event.Transaction)
}

// Nop is an Observer that ignores every event.
type Nop struct{}

// BlockSkipped does nothing.
func (Nop) BlockSkipped(*event.Block) {}

// BlockChecked does nothing.
func (Nop) BlockChecked(*event.Block) {}

// StatusNotOK does nothing.
func (Nop) StatusNotOK(*event.Transaction) {}

// Matched does nothing.
func (Nop) Matched(*event.Transaction) {}

// Multi fans every event out to several observers, in order.
type Multi []Observer

// Chain combines observers into one. Nil entries are dropped.
func Chain(obs ...Observer) Observer {
	m := make(Multi, 0, len(obs))
	for _, o := range obs {
		if o != nil {
			m = append(m, o)
		}
	}
	switch len(m) {
	case 0:
		return Nop{}
	case 1:
		return m[0]
	}
	return m
}

// BlockSkipped forwards to every observer.
func (m Multi) BlockSkipped(b *event.Block) {
	for _, o := range m {
		o.BlockSkipped(b)
	}
}

// BlockChecked forwards to every observer.
func (m Multi) BlockChecked(b *event.Block) {
	for _, o := range m {
		o.BlockChecked(b)
	}
}

// StatusNotOK forwards to every observer.
func (m Multi) StatusNotOK(tx *event.Transaction) {
	for _, o := range m {
		o.StatusNotOK(tx)
	}
}

// Matched forwards to every observer.
func (m Multi) Matched(tx *event.Transaction) {
	for _, o := range m {
		o.Matched(tx)
	}
}
