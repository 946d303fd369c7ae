package watcher

import (
	"bytes"
	"context"
	"errors"
	"time"

	"github.com/hedeqiang/sieve/event"
	"github.com/hedeqiang/sieve/filter"
)

var (
	// ErrMissingContractAddress is returned when a successful contract
	// creation has a receipt without the address of the created contract.
	ErrMissingContractAddress = errors.New("watcher: receipt of contract creation has no contract address")

	// ErrEmptyEvent is returned for an event pattern without any topic
	// filter. Such a pattern can never match a log.
	ErrEmptyEvent = errors.New("watcher: event pattern has no topics")
)

// WatchForContractCreation waits for a successful transaction deploying
// exactly the given bytecode and returns it with the address of the new
// contract.
func (m *Matcher) WatchForContractCreation(ctx context.Context, startOfSwap time.Time, bytecode []byte) (event.Transaction, event.Address, error) {
	tx, receipt, err := m.MatchTransaction(ctx, startOfSwap, func(tx *event.Transaction) bool {
		return tx.IsContractCreation() && bytes.Equal(tx.Input, bytecode)
	})
	if err != nil {
		return event.Transaction{}, event.Address{}, err
	}
	if receipt.ContractAddress == nil {
		return event.Transaction{}, event.Address{}, ErrMissingContractAddress
	}
	return tx, *receipt.ContractAddress, nil
}

// WatchForEvent waits for a successful transaction that emitted a log
// matching ev and returns it with that log.
func (m *Matcher) WatchForEvent(ctx context.Context, startOfSwap time.Time, ev filter.Event) (event.Transaction, event.Log, error) {
	if len(ev.Topics) == 0 {
		return event.Transaction{}, event.Log{}, ErrEmptyEvent
	}
	return m.MatchReceipt(ctx, startOfSwap, ev.Topics, func(r *event.Receipt) (event.Log, bool) {
		return filter.FindLog(ev, r)
	})
}
