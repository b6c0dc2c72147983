// Command datagen writes a synthetic transaction CSV with planted laundering
// patterns for exercising the analysis pipeline.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/vanshika/muletrace/internal/generator"
)

func main() {
	cfg := generator.DefaultConfig()
	var (
		accounts     = flag.Int("accounts", cfg.NumAccounts, "number of background accounts")
		transactions = flag.Int("transactions", cfg.NumTransactions, "number of background transactions")
		cycles       = flag.Int("cycles", cfg.CycleRings, "number of planted cycle rings")
		fanIn        = flag.Int("fan-in", cfg.FanInBursts, "number of planted fan-in bursts")
		fanOut       = flag.Int("fan-out", cfg.FanOutBursts, "number of planted fan-out bursts")
		shells       = flag.Int("shells", cfg.ShellChains, "number of planted shell chains")
		velocity     = flag.Int("velocity", cfg.VelocityAccounts, "number of planted high-velocity accounts")
		seed         = flag.Int64("seed", cfg.Seed, "random seed for deterministic generation")
		output       = flag.String("output", "transactions.csv", "path for the generated CSV")
	)
	flag.Parse()

	gen := generator.New(generator.Config{
		NumAccounts:      *accounts,
		NumTransactions:  *transactions,
		CycleRings:       *cycles,
		FanInBursts:      *fanIn,
		FanOutBursts:     *fanOut,
		ShellChains:      *shells,
		VelocityAccounts: *velocity,
		Seed:             *seed,
	})

	txs := gen.Generate()
	if err := generator.WriteCSV(txs, *output); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write dataset: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stdout, "Generated %d transactions into %s\n", len(txs), *output)
}
