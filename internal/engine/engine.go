// Package engine implements the in-memory mule-network analytics: the
// transaction multigraph, the cycle, smurfing and shell-chain detectors, and
// the scoring engine that folds their output into a ranked report.
package engine

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/vanshika/muletrace/internal/domain"
)

// Detect runs the three detectors over the graph. They only read the graph
// and never share mutable state, so they run concurrently; their outputs are
// combined strictly after all of them finish.
func Detect(ctx context.Context, g *TransactionGraph) DetectionResults {
	var results DetectionResults
	eg, _ := errgroup.WithContext(ctx)
	eg.Go(func() error {
		results.Cycles = DetectCycles(g)
		return nil
	})
	eg.Go(func() error {
		smurf := DetectSmurfing(g)
		results.FanIn = smurf.FanIn
		results.FanOut = smurf.FanOut
		return nil
	})
	eg.Go(func() error {
		results.Shells = DetectShellChains(g)
		return nil
	})
	// The detectors are pure functions of the graph and return no errors.
	_ = eg.Wait()
	return results
}

// Analyze processes one complete batch: build the graph, detect, score.
// elapsedSeconds is sampled after detection so the caller controls what the
// reported processing time covers.
func Analyze(ctx context.Context, txs []domain.Transaction, elapsedSeconds func() float64) domain.Report {
	g := NewTransactionGraph()
	g.Ingest(txs)
	results := Detect(ctx, g)
	return BuildReport(g, results, elapsedSeconds())
}
