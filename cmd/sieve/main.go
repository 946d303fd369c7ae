// Command sieve watches a chain for the transaction completing one side of
// an atomic swap and prints it as JSON.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"

	"github.com/hedeqiang/sieve"
	"github.com/hedeqiang/sieve/chain"
	"github.com/hedeqiang/sieve/chain/arbitrum"
	"github.com/hedeqiang/sieve/chain/bsc"
	"github.com/hedeqiang/sieve/chain/ethereum"
	"github.com/hedeqiang/sieve/chain/polygon"
	"github.com/hedeqiang/sieve/retry"
)

var (
	rpcFlag = &cli.StringFlag{
		Name:     "rpc",
		Usage:    "JSON-RPC endpoint (http(s):// or ws(s)://)",
		EnvVars:  []string{"SIEVE_RPC_URL"},
		Required: true,
	}
	chainFlag = &cli.StringFlag{
		Name:    "chain",
		Usage:   "chain preset: ethereum, bsc, polygon or arbitrum",
		EnvVars: []string{"SIEVE_CHAIN"},
		Value:   "ethereum",
	}
	startFlag = &cli.StringFlag{
		Name:  "start",
		Usage: "start of the swap, as RFC 3339 time or unix seconds (default: now)",
	}
	pollFlag = &cli.DurationFlag{
		Name:  "poll",
		Usage: "head polling interval (default: block time of the chain)",
	}
	timeoutFlag = &cli.DurationFlag{
		Name:  "timeout",
		Usage: "give up after this long (0 waits forever)",
	}
	cacheFlag = &cli.IntFlag{
		Name:  "cache",
		Usage: "number of blocks and receipts to cache (0 disables caching)",
		Value: sieve.DefaultConfig().CacheSize,
	}
	retriesFlag = &cli.IntFlag{
		Name:  "retries",
		Usage: "attempts per RPC call",
		Value: 3,
	}
	logLevelFlag = &cli.StringFlag{
		Name:    "log-level",
		Usage:   "log verbosity: trace, debug, info, warn, error or crit",
		EnvVars: []string{"SIEVE_LOG_LEVEL"},
		Value:   "info",
	}
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "sieve",
		Usage: "watch EVM chains for swap transactions",
		// Event signatures contain commas.
		DisableSliceFlagSeparator: true,
		Flags: []cli.Flag{
			rpcFlag,
			chainFlag,
			startFlag,
			pollFlag,
			timeoutFlag,
			cacheFlag,
			retriesFlag,
			logLevelFlag,
		},
		Commands: []*cli.Command{
			&Contract,
			&Event,
		},
	}
}

// scan sets up a Sieve instance from the global flags and runs fn on it.
func scan(c *cli.Context, fn func(ctx context.Context, s *sieve.Sieve, chainID string, start time.Time) (any, error)) error {
	level, err := sieve.ParseLogLevel(c.String(logLevelFlag.Name))
	if err != nil {
		return err
	}
	logger := log.NewLogger(log.NewTerminalHandlerWithLevel(c.App.ErrWriter, level, false))
	log.SetDefault(logger)

	start, err := parseStart(c.String(startFlag.Name))
	if err != nil {
		return err
	}
	conn, err := connect(c.String(chainFlag.Name), c.String(rpcFlag.Name), c.Int(retriesFlag.Name))
	if err != nil {
		return err
	}

	s := sieve.New(
		sieve.WithLogger(logger),
		sieve.WithPollInterval(c.Duration(pollFlag.Name)),
		sieve.WithCacheSize(c.Int(cacheFlag.Name)),
	)
	if err := s.AddChain(conn); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()
	if timeout := c.Duration(timeoutFlag.Name); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	log.Info("Watching chain", "chain", conn.ID(), "start", start)
	result, err := fn(ctx, s, conn.ID(), start)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if serr := s.Shutdown(shutdownCtx); serr != nil {
		log.Warn("Shutdown failed", "err", serr)
	}
	if err != nil {
		return err
	}

	out := json.NewEncoder(c.App.Writer)
	out.SetIndent("", "  ")
	return out.Encode(result)
}

func connect(name, rpcURL string, retries int) (chain.Connector, error) {
	opts := []ethereum.Option{
		ethereum.WithRetry(retry.Exponential(retries)),
		ethereum.WithCircuitBreaker(retry.NewCircuitBreaker(5, 30*time.Second)),
	}
	switch name {
	case "ethereum":
		return ethereum.New(rpcURL, opts...), nil
	case "bsc":
		return bsc.New(rpcURL, opts...), nil
	case "polygon":
		return polygon.New(rpcURL, opts...), nil
	case "arbitrum":
		return arbitrum.New(rpcURL, opts...), nil
	}
	return nil, fmt.Errorf("unknown chain %q", name)
}

func parseStart(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(secs, 0), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid start time %q", s)
	}
	return t, nil
}
