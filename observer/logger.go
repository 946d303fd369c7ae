package observer

import (
	"github.com/ethereum/go-ethereum/log"

	"github.com/hedeqiang/sieve/event"
)

// Logger writes scan events to a go-ethereum logger.
type Logger struct {
	logger log.Logger
}

// NewLogger creates a logging observer using the provided logger.
// If logger is nil, the root logger is used.
func NewLogger(l log.Logger) *Logger {
	if l == nil {
		l = log.Root()
	}
	return &Logger{logger: l}
}

// BlockSkipped logs a bloom miss at trace level.
func (l *Logger) BlockSkipped(b *event.Block) {
	l.logger.Trace("Bloom filter rules out block", "number", b.Number, "hash", b.Hash)
}

// BlockChecked logs the block about to be examined at trace level.
func (l *Logger) BlockChecked(b *event.Block) {
	l.logger.Trace("Checking block for transactions", "number", b.Number, "hash", b.Hash, "txs", len(b.Transactions))
}

// StatusNotOK is logged as a warning: a failed attempt (e.g. too little gas)
// is rarely intended by the swap counterparty.
func (l *Logger) StatusNotOK(tx *event.Transaction) {
	l.logger.Warn("Transaction matched but status was NOT OK", "tx", tx.Hash, "block", tx.BlockNumber)
}

// Matched logs at debug level. Callers report the result themselves.
func (l *Logger) Matched(tx *event.Transaction) {
	l.logger.Debug("Transaction matched", "tx", tx.Hash, "block", tx.BlockNumber)
}
