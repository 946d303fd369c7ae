// Package event defines the ledger entities the matching engine folds over:
// blocks, transactions, receipts and the logs they emit.
package event

// Hash represents a 32-byte hash. Log topics are hashes as well.
type Hash [32]byte

// Address represents a 20-byte Ethereum-compatible address.
type Address [20]byte

// Log represents a single event log emitted by a smart contract.
type Log struct {
	// Address is the contract address that emitted the event.
	Address Address

	// Topics contains the indexed event parameters, at most four.
	// Topics[0] is typically the event signature hash.
	Topics []Hash

	// Data holds the non-indexed event parameters (ABI-encoded).
	Data []byte

	// BlockNumber is the block in which this log was emitted.
	BlockNumber uint64

	// BlockHash is the hash of the block containing this log.
	BlockHash Hash

	// TxHash is the transaction hash that produced this log.
	TxHash Hash

	// TxIndex is the transaction's position in the block.
	TxIndex uint

	// LogIndex is the log's position in the block.
	LogIndex uint

	// Removed indicates whether this log was reverted due to a chain reorganization.
	Removed bool
}

// EventSignature returns the first topic (event signature hash), or a zero hash if no topics exist.
func (l Log) EventSignature() Hash {
	if len(l.Topics) > 0 {
		return l.Topics[0]
	}
	return Hash{}
}
