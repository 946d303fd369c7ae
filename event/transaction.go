package event

import "github.com/holiman/uint256"

// Transaction is a transaction as included in a block.
type Transaction struct {
	Hash Hash
	From Address

	// To is nil if, and only if, the transaction creates a contract.
	To *Address

	// Input is the contract bytecode for a creation, call data otherwise.
	Input []byte

	Value       uint256.Int
	Nonce       uint64
	BlockHash   Hash
	BlockNumber uint64
	Index       uint
}

// IsContractCreation reports whether the transaction deploys a contract.
func (tx *Transaction) IsContractCreation() bool {
	return tx.To == nil
}
