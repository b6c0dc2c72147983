// Command analyze runs the detection pipeline over a transaction CSV without
// the HTTP server and writes the report JSON to stdout or a file.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/vanshika/muletrace/internal/domain"
	"github.com/vanshika/muletrace/internal/engine"
	"github.com/vanshika/muletrace/internal/ingest"
)

func main() {
	var (
		input  = flag.String("input", "", "path to the transaction CSV (required)")
		output = flag.String("output", "", "path for the report JSON (default stdout)")
		pretty = flag.Bool("pretty", false, "indent the report JSON")
	)
	flag.Parse()

	if *input == "" {
		fmt.Fprintln(os.Stderr, "usage: analyze -input transactions.csv [-output report.json] [-pretty]")
		os.Exit(2)
	}

	file, err := os.Open(*input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open input: %v\n", err)
		os.Exit(1)
	}
	defer file.Close()

	start := time.Now()
	txs, err := ingest.ReadCSV(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse csv: %v\n", err)
		os.Exit(1)
	}

	report := engine.Analyze(context.Background(), txs, func() float64 {
		return time.Since(start).Seconds()
	})

	if err := writeReport(report, *output, *pretty); err != nil {
		fmt.Fprintf(os.Stderr, "write report: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "analyzed %d transactions: %d accounts, %d rings, %d flagged\n",
		len(txs),
		report.Summary.TotalAccountsAnalyzed,
		report.Summary.FraudRingsDetected,
		report.Summary.SuspiciousAccountsFlagged,
	)
}

func writeReport(report domain.Report, path string, pretty bool) error {
	var out io.Writer = os.Stdout
	if path != "" {
		file, err := os.Create(path)
		if err != nil {
			return err
		}
		defer file.Close()
		out = file
	}

	encoder := json.NewEncoder(out)
	if pretty {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(report)
}
