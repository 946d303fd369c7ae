package event

const (
	// ReceiptStatusFailed is the status of a transaction whose execution failed.
	ReceiptStatusFailed = uint64(0)

	// ReceiptStatusSuccessful is the status of a transaction that executed successfully.
	ReceiptStatusSuccessful = uint64(1)
)

// Receipt is the post-execution record of a transaction.
type Receipt struct {
	TxHash Hash

	// Status is ReceiptStatusSuccessful or ReceiptStatusFailed. Receipts
	// reported without a status are recorded as failed.
	Status uint64

	// ContractAddress is set only for successful contract creations.
	ContractAddress *Address

	// Logs holds the logs emitted during execution, in emission order.
	Logs []Log

	GasUsed     uint64
	BlockHash   Hash
	BlockNumber uint64
}

// IsStatusOK reports whether the transaction executed successfully.
func (r *Receipt) IsStatusOK() bool {
	return r.Status == ReceiptStatusSuccessful
}
