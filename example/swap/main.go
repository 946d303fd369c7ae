// Example: swap — watch both legs of an atomic swap at once.
//
// The initiator's HTLC is deployed on Ethereum; the counterparty redeems on
// BSC by calling an existing HTLC contract that emits a Redeemed event.
//
// Usage:
//
//	ETH_RPC_URL=https://... BSC_RPC_URL=wss://... HTLC_BYTECODE=0x6080... go run ./example/swap
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hedeqiang/sieve"
	"github.com/hedeqiang/sieve/chain/bsc"
	"github.com/hedeqiang/sieve/chain/ethereum"
	"github.com/hedeqiang/sieve/event"
	"github.com/hedeqiang/sieve/filter"
	"github.com/hedeqiang/sieve/internal/hex"
	"github.com/hedeqiang/sieve/observer"
	"github.com/hedeqiang/sieve/retry"
)

func main() {
	ethURL, bscURL := os.Getenv("ETH_RPC_URL"), os.Getenv("BSC_RPC_URL")
	if ethURL == "" || bscURL == "" {
		log.Fatal("ETH_RPC_URL and BSC_RPC_URL environment variables are required")
	}
	bytecode, err := hex.Decode(os.Getenv("HTLC_BYTECODE"))
	if err != nil || len(bytecode) == 0 {
		log.Fatal("HTLC_BYTECODE must hold the hex encoded creation bytecode")
	}

	metrics := observer.NewMetrics()
	s := sieve.New(
		sieve.WithLogLevel("debug"),
		sieve.WithObserver(metrics),
	)

	if err := s.AddChain(ethereum.New(ethURL, ethereum.WithRetry(retry.Exponential(5)))); err != nil {
		log.Fatal(err)
	}
	if err := s.AddChain(bsc.New(bscURL, ethereum.WithRetry(retry.Exponential(5)))); err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, time.Hour)
	defer cancel()

	startOfSwap := time.Now().Add(-5 * time.Minute)

	deployed := make(chan error, 1)
	go func() {
		tx, addr, err := s.WatchForContractCreation(ctx, "ethereum", startOfSwap, bytecode)
		if err == nil {
			fmt.Printf("HTLC deployed: tx=%s contract=%s block=%d\n", tx.Hash, addr, tx.BlockNumber)
		}
		deployed <- err
	}()

	htlc := event.MustHexToAddress("0xA5B4a2F5A0d8b5C3b1C9a0c3F4E0cA1b2C3d4E5f")
	redeemed := event.MustSignatureTopic("Redeemed(bytes32 indexed swapID, bytes32 secret)")
	ev := filter.NewEvent(htlc, filter.Exactly(redeemed), filter.Any())

	tx, redeem, err := s.WatchForEvent(ctx, "bsc", startOfSwap, ev)
	if err != nil {
		log.Printf("Redeem not found: %v", err)
	} else {
		fmt.Printf("Redeemed: tx=%s swap=%s secret=%s\n", tx.Hash, redeem.Topics[1], hex.Encode(redeem.Data))
	}

	if err := <-deployed; err != nil {
		log.Printf("Deployment not found: %v", err)
	}
	fmt.Printf("Blocks checked=%d skipped=%d failed matches=%d\n", metrics.Checked(), metrics.Skipped(), metrics.Failed())

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := s.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
