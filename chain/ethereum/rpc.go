package ethereum

import (
	"fmt"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/holiman/uint256"

	"github.com/hedeqiang/sieve/event"
	"github.com/hedeqiang/sieve/internal/hex"
)

// rpcBlock is the JSON-RPC representation of a block with full transactions.
// Hash and Number are null for a pending block.
type rpcBlock struct {
	Hash         *string          `json:"hash"`
	ParentHash   string           `json:"parentHash"`
	Number       *string          `json:"number"`
	Timestamp    string           `json:"timestamp"`
	LogsBloom    string           `json:"logsBloom"`
	Transactions []rpcTransaction `json:"transactions"`
}

// rpcTransaction is the JSON-RPC representation of a transaction.
type rpcTransaction struct {
	Hash        string  `json:"hash"`
	From        string  `json:"from"`
	To          *string `json:"to"`
	Input       string  `json:"input"`
	Value       string  `json:"value"`
	Nonce       string  `json:"nonce"`
	BlockHash   *string `json:"blockHash"`
	BlockNumber *string `json:"blockNumber"`
	Index       *string `json:"transactionIndex"`
}

// rpcReceipt is the JSON-RPC representation of a transaction receipt.
// Status is absent for pre-Byzantium receipts.
type rpcReceipt struct {
	TxHash          string   `json:"transactionHash"`
	Status          *string  `json:"status"`
	ContractAddress *string  `json:"contractAddress"`
	Logs            []rpcLog `json:"logs"`
	GasUsed         string   `json:"gasUsed"`
	BlockHash       string   `json:"blockHash"`
	BlockNumber     string   `json:"blockNumber"`
}

// rpcLog is the JSON-RPC representation of an Ethereum log.
type rpcLog struct {
	Address     string   `json:"address"`
	Topics      []string `json:"topics"`
	Data        string   `json:"data"`
	BlockNumber string   `json:"blockNumber"`
	BlockHash   string   `json:"blockHash"`
	TxHash      string   `json:"transactionHash"`
	TxIndex     string   `json:"transactionIndex"`
	LogIndex    string   `json:"logIndex"`
	Removed     bool     `json:"removed"`
}

func (rb *rpcBlock) toBlock() (*event.Block, error) {
	var (
		b   event.Block
		err error
	)

	if rb.Hash != nil {
		if b.Hash, err = parseHash(*rb.Hash); err != nil {
			return nil, fmt.Errorf("parse hash: %w", err)
		}
	}
	if b.ParentHash, err = parseHash(rb.ParentHash); err != nil {
		return nil, fmt.Errorf("parse parentHash: %w", err)
	}
	if rb.Number != nil {
		if b.Number, err = hex.DecodeUint64(*rb.Number); err != nil {
			return nil, fmt.Errorf("parse number: %w", err)
		}
	}
	if b.Timestamp, err = parseUint256(rb.Timestamp); err != nil {
		return nil, fmt.Errorf("parse timestamp: %w", err)
	}
	if b.LogsBloom, err = parseBloom(rb.LogsBloom); err != nil {
		return nil, fmt.Errorf("parse logsBloom: %w", err)
	}

	b.Transactions = make([]event.Transaction, len(rb.Transactions))
	for i := range rb.Transactions {
		if err := rb.Transactions[i].toTransaction(&b.Transactions[i]); err != nil {
			return nil, fmt.Errorf("parse transaction %d: %w", i, err)
		}
	}
	return &b, nil
}

func (rt *rpcTransaction) toTransaction(tx *event.Transaction) error {
	var err error
	if tx.Hash, err = parseHash(rt.Hash); err != nil {
		return fmt.Errorf("parse hash: %w", err)
	}
	if tx.From, err = parseAddress(rt.From); err != nil {
		return fmt.Errorf("parse from: %w", err)
	}
	if rt.To != nil {
		to, err := parseAddress(*rt.To)
		if err != nil {
			return fmt.Errorf("parse to: %w", err)
		}
		tx.To = &to
	}
	if tx.Input, err = parseData(rt.Input); err != nil {
		return fmt.Errorf("parse input: %w", err)
	}
	if tx.Value, err = parseUint256(rt.Value); err != nil {
		return fmt.Errorf("parse value: %w", err)
	}
	if rt.Nonce != "" {
		if tx.Nonce, err = hex.DecodeUint64(rt.Nonce); err != nil {
			return fmt.Errorf("parse nonce: %w", err)
		}
	}
	if rt.BlockHash != nil {
		if tx.BlockHash, err = parseHash(*rt.BlockHash); err != nil {
			return fmt.Errorf("parse blockHash: %w", err)
		}
	}
	if rt.BlockNumber != nil {
		if tx.BlockNumber, err = hex.DecodeUint64(*rt.BlockNumber); err != nil {
			return fmt.Errorf("parse blockNumber: %w", err)
		}
	}
	if rt.Index != nil {
		idx, err := hex.DecodeUint64(*rt.Index)
		if err != nil {
			return fmt.Errorf("parse transactionIndex: %w", err)
		}
		tx.Index = uint(idx)
	}
	return nil
}

func (rr *rpcReceipt) toReceipt() (*event.Receipt, error) {
	var (
		r   event.Receipt
		err error
	)

	if r.TxHash, err = parseHash(rr.TxHash); err != nil {
		return nil, fmt.Errorf("parse transactionHash: %w", err)
	}
	r.Status = event.ReceiptStatusFailed
	if rr.Status != nil {
		if r.Status, err = hex.DecodeUint64(*rr.Status); err != nil {
			return nil, fmt.Errorf("parse status: %w", err)
		}
	}
	if rr.ContractAddress != nil {
		addr, err := parseAddress(*rr.ContractAddress)
		if err != nil {
			return nil, fmt.Errorf("parse contractAddress: %w", err)
		}
		r.ContractAddress = &addr
	}
	if rr.GasUsed != "" {
		if r.GasUsed, err = hex.DecodeUint64(rr.GasUsed); err != nil {
			return nil, fmt.Errorf("parse gasUsed: %w", err)
		}
	}
	if rr.BlockHash != "" {
		if r.BlockHash, err = parseHash(rr.BlockHash); err != nil {
			return nil, fmt.Errorf("parse blockHash: %w", err)
		}
	}
	if rr.BlockNumber != "" {
		if r.BlockNumber, err = hex.DecodeUint64(rr.BlockNumber); err != nil {
			return nil, fmt.Errorf("parse blockNumber: %w", err)
		}
	}

	r.Logs = make([]event.Log, len(rr.Logs))
	for i := range rr.Logs {
		if r.Logs[i], err = rr.Logs[i].toLog(); err != nil {
			return nil, fmt.Errorf("parse log %d: %w", i, err)
		}
	}
	return &r, nil
}

func (rl *rpcLog) toLog() (event.Log, error) {
	var (
		log event.Log
		err error
	)
	log.Removed = rl.Removed

	if log.Address, err = parseAddress(rl.Address); err != nil {
		return log, fmt.Errorf("parse address: %w", err)
	}

	log.Topics = make([]event.Hash, len(rl.Topics))
	for i, t := range rl.Topics {
		if log.Topics[i], err = parseHash(t); err != nil {
			return log, fmt.Errorf("parse topic %d: %w", i, err)
		}
	}

	if log.Data, err = parseData(rl.Data); err != nil {
		return log, fmt.Errorf("parse data: %w", err)
	}

	if rl.BlockNumber != "" {
		if log.BlockNumber, err = hex.DecodeUint64(rl.BlockNumber); err != nil {
			return log, fmt.Errorf("parse blockNumber: %w", err)
		}
	}
	if rl.BlockHash != "" {
		if log.BlockHash, err = parseHash(rl.BlockHash); err != nil {
			return log, fmt.Errorf("parse blockHash: %w", err)
		}
	}
	if rl.TxHash != "" {
		if log.TxHash, err = parseHash(rl.TxHash); err != nil {
			return log, fmt.Errorf("parse txHash: %w", err)
		}
	}
	if rl.TxIndex != "" {
		idx, err := hex.DecodeUint64(rl.TxIndex)
		if err != nil {
			return log, fmt.Errorf("parse txIndex: %w", err)
		}
		log.TxIndex = uint(idx)
	}
	if rl.LogIndex != "" {
		idx, err := hex.DecodeUint64(rl.LogIndex)
		if err != nil {
			return log, fmt.Errorf("parse logIndex: %w", err)
		}
		log.LogIndex = uint(idx)
	}
	return log, nil
}

func parseHash(s string) (event.Hash, error) {
	var h event.Hash
	b, err := hex.Decode(s)
	if err != nil {
		return h, err
	}
	if len(b) > len(h) {
		return h, fmt.Errorf("hash too long: %d bytes", len(b))
	}
	copy(h[:], hex.PadLeft(b, len(h)))
	return h, nil
}

func parseAddress(s string) (event.Address, error) {
	var a event.Address
	b, err := hex.Decode(s)
	if err != nil {
		return a, err
	}
	if len(b) > len(a) {
		return a, fmt.Errorf("address too long: %d bytes", len(b))
	}
	copy(a[:], hex.PadLeft(b, len(a)))
	return a, nil
}

func parseData(s string) ([]byte, error) {
	if s == "" || s == "0x" {
		return nil, nil
	}
	return hex.Decode(s)
}

func parseUint256(s string) (uint256.Int, error) {
	var z uint256.Int
	if s == "" {
		return z, nil
	}
	b, err := hex.Decode(s)
	if err != nil {
		return z, err
	}
	if len(b) > 32 {
		return z, fmt.Errorf("quantity exceeds 256 bits")
	}
	z.SetBytes(b)
	return z, nil
}

func parseBloom(s string) (types.Bloom, error) {
	var bloom types.Bloom
	if s == "" {
		return bloom, nil
	}
	b, err := hex.Decode(s)
	if err != nil {
		return bloom, err
	}
	if len(b) != types.BloomByteLength {
		return bloom, fmt.Errorf("bloom has %d bytes, want %d", len(b), types.BloomByteLength)
	}
	return types.BytesToBloom(b), nil
}
