package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/hedeqiang/sieve"
	"github.com/hedeqiang/sieve/event"
	"github.com/hedeqiang/sieve/filter"
	"github.com/hedeqiang/sieve/internal/hex"
)

var Contract = cli.Command{
	Action: contract,
	Name:   "contract",
	Usage:  "waits for the deployment of a contract with the given bytecode",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "bytecode",
			Usage:    "hex encoded creation bytecode",
			Required: true,
		},
	},
}

var Event = cli.Command{
	Action:    watchEvent,
	Name:      "event",
	Usage:     "waits for a log matching the given address and topics",
	ArgsUsage: " ",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "address",
			Usage:    "hex address of the emitting contract",
			Required: true,
		},
		&cli.StringSliceFlag{
			Name:  "topic",
			Usage: "topic in position order: a 32-byte hex value, an event signature, or _ for any",
		},
	},
}

type creationResult struct {
	Transaction string `json:"transaction"`
	Block       uint64 `json:"block"`
	Contract    string `json:"contract"`
}

type eventResult struct {
	Transaction string   `json:"transaction"`
	Block       uint64   `json:"block"`
	Address     string   `json:"address"`
	Topics      []string `json:"topics"`
	Data        string   `json:"data"`
	LogIndex    uint     `json:"logIndex"`
}

func contract(c *cli.Context) error {
	bytecode, err := hex.Decode(c.String("bytecode"))
	if err != nil {
		return fmt.Errorf("invalid bytecode: %w", err)
	}
	if len(bytecode) == 0 {
		return fmt.Errorf("empty bytecode")
	}

	return scan(c, func(ctx context.Context, s *sieve.Sieve, chainID string, start time.Time) (any, error) {
		tx, addr, err := s.WatchForContractCreation(ctx, chainID, start, bytecode)
		if err != nil {
			return nil, err
		}
		return creationResult{
			Transaction: tx.Hash.Hex(),
			Block:       tx.BlockNumber,
			Contract:    addr.Hex(),
		}, nil
	})
}

func watchEvent(c *cli.Context) error {
	ev, err := parseEvent(c.String("address"), c.StringSlice("topic"))
	if err != nil {
		return err
	}

	return scan(c, func(ctx context.Context, s *sieve.Sieve, chainID string, start time.Time) (any, error) {
		tx, log, err := s.WatchForEvent(ctx, chainID, start, ev)
		if err != nil {
			return nil, err
		}
		topics := make([]string, len(log.Topics))
		for i, t := range log.Topics {
			topics[i] = t.Hex()
		}
		return eventResult{
			Transaction: tx.Hash.Hex(),
			Block:       tx.BlockNumber,
			Address:     log.Address.Hex(),
			Topics:      topics,
			Data:        hex.Encode(log.Data),
			LogIndex:    log.LogIndex,
		}, nil
	})
}

func parseEvent(address string, topics []string) (filter.Event, error) {
	addr, err := event.HexToAddress(address)
	if err != nil {
		return filter.Event{}, err
	}
	if len(topics) == 0 {
		return filter.Event{}, fmt.Errorf("at least one --topic is required")
	}

	patterns := make([]*event.Hash, len(topics))
	for i, t := range topics {
		switch {
		case t == "_":
			patterns[i] = filter.Any()
		case len(t) > 1 && (t[:2] == "0x" || t[:2] == "0X"):
			h, err := event.HexToHash(t)
			if err != nil {
				return filter.Event{}, err
			}
			patterns[i] = filter.Exactly(h)
		default:
			h, err := event.SignatureTopic(t)
			if err != nil {
				return filter.Event{}, err
			}
			patterns[i] = filter.Exactly(h)
		}
	}
	return filter.NewEvent(addr, patterns...), nil
}
