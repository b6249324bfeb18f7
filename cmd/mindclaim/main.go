package main

import (
	"context"
	"fmt"
	"log"
	"math/big"
	"net/http"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/Boer2333/mindnetwork/internal/claim"
	"github.com/Boer2333/mindnetwork/internal/config"
	"github.com/Boer2333/mindnetwork/internal/eligibility"
	"github.com/Boer2333/mindnetwork/internal/runner"
	"github.com/Boer2333/mindnetwork/internal/wallet"
)

func main() {
	// Optional .env next to the binary; real env always wins.
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "mindclaim",
		Usage: "Batch Mind Network airdrop eligibility checker and claimer",
		Commands: []*cli.Command{
			checkCommand(),
			claimCommand(),
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func commonFlags(defaultOut string, defaultTimeoutMS int64) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "input",
			Aliases: []string{"i"},
			Value:   "wallets.csv",
			Usage:   "Wallet table: address,privateKey[,proxy] with a header row",
			EnvVars: []string{"INPUT", "input"},
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Value:   defaultOut,
			Usage:   "Output table, overwritten each run",
			EnvVars: []string{"OUTPUT", "output"},
		},
		&cli.IntFlag{
			Name:    "concurrency",
			Aliases: []string{"c"},
			Value:   3,
			Usage:   "Wallets processed in parallel",
			EnvVars: []string{"CONCURRENCY", "concurrency"},
		},
		&cli.Int64Flag{
			Name:    "request-timeout-ms",
			Value:   defaultTimeoutMS,
			Usage:   "Per-request timeout for eligibility calls (0 = none)",
			EnvVars: []string{"REQUEST_TIMEOUT_MS", "request_timeout_ms"},
		},
	}
}

func checkCommand() *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "Check eligibility for every wallet and record amounts",
		// Checking runs historically carry no request timeout.
		Flags: commonFlags("check_results.csv", 0),
		Action: func(c *cli.Context) error {
			return run(c, false)
		},
	}
}

func claimCommand() *cli.Command {
	return &cli.Command{
		Name:  "claim",
		Usage: "Check eligibility and submit on-chain claims for eligible wallets",
		Flags: commonFlags("claim_results.csv", 15000),
		Action: func(c *cli.Context) error {
			return run(c, true)
		},
	}
}

func run(c *cli.Context, performClaim bool) error {
	cfg := config.Load()
	ctx := c.Context

	wallets, err := wallet.Load(c.String("input"))
	if err != nil {
		return err
	}
	log.Printf("loaded %d wallets from %s", len(wallets), c.String("input"))

	timeout := time.Duration(c.Int64("request-timeout-ms")) * time.Millisecond
	fetcher := eligibility.NewClient(cfg.APIBaseURL, cfg.AppVersion, timeout)

	var claimer runner.Claimer
	if performClaim {
		claimer, err = newSubmitter(ctx, cfg)
		if err != nil {
			return err
		}
	}

	pool := runner.New(fetcher, claimer, runner.Options{
		Concurrency:  c.Int("concurrency"),
		PerformClaim: performClaim,
		SignMessage:  cfg.SignMessage,
		Logf:         log.Printf,
	})
	outcomes, stats := pool.Run(ctx, wallets)

	outPath := c.String("output")
	if err := runner.WriteOutcomes(outPath, outcomes, performClaim); err != nil {
		// Outcomes are already final; a save failure must not eat them.
		log.Printf("save results: %v", err)
	} else {
		log.Printf("results saved to %s", outPath)
	}

	fmt.Println(stats.Summary())
	return nil
}

// newSubmitter dials the RPC with keep-alives and sane timeouts and wires the
// claim contract.
func newSubmitter(ctx context.Context, cfg config.Settings) (*claim.Submitter, error) {
	transport := &http.Transport{
		MaxIdleConns:    100,
		IdleConnTimeout: 90 * time.Second,
	}
	httpClient := &http.Client{Timeout: 30 * time.Second, Transport: transport}
	rpcClient, err := rpc.DialHTTPWithClient(cfg.RPCURL, httpClient)
	if err != nil {
		return nil, fmt.Errorf("dial rpc: %w", err)
	}
	ec := ethclient.NewClient(rpcClient)

	chainID := big.NewInt(cfg.ChainID)
	if cfg.ChainID == 0 {
		chainID, err = ec.NetworkID(ctx)
		if err != nil {
			return nil, fmt.Errorf("chain id: %w", err)
		}
	}
	if !common.IsHexAddress(cfg.ContractHex) {
		return nil, fmt.Errorf("invalid claim contract address %q", cfg.ContractHex)
	}

	sub := claim.NewSubmitter(ec, chainID, common.HexToAddress(cfg.ContractHex), cfg.ConfirmTimeout)
	sub.Logf = log.Printf
	return sub, nil
}
