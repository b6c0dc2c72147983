package engine

import (
	"sort"
	"time"

	"github.com/vanshika/muletrace/internal/domain"
)

// Burst thresholds: a hub that exchanges money with at least 10 distinct
// counterparties inside a 72 hour window is treated as a structuring hub.
const (
	smurfWindow            = 72 * time.Hour
	smurfMinCounterparties = 10
)

// SmurfingResult holds the fan-in and fan-out rings found in one run. Each
// ring lists the hub first, followed by its distinct counterparties in
// encounter order.
type SmurfingResult struct {
	FanIn  [][]string
	FanOut [][]string
}

// DetectSmurfing scans time-sorted transactions for fan-in (many senders to
// one receiver) and fan-out (one sender to many receivers) bursts. A hub
// reports at most one ring per direction: only the earliest qualifying window
// is emitted.
func DetectSmurfing(g *TransactionGraph) SmurfingResult {
	sorted := append([]domain.Transaction(nil), g.Transactions()...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	return SmurfingResult{
		FanIn: detectBursts(sorted,
			func(tx domain.Transaction) string { return tx.ReceiverID },
			func(tx domain.Transaction) string { return tx.SenderID }),
		FanOut: detectBursts(sorted,
			func(tx domain.Transaction) string { return tx.SenderID },
			func(tx domain.Transaction) string { return tx.ReceiverID }),
	}
}

// detectBursts groups the time-sorted batch by hub and slides a window start
// pointer over each hub's transactions. Hubs are visited in order of first
// appearance so reruns produce identical output.
func detectBursts(sorted []domain.Transaction, hubOf, counterpartyOf func(domain.Transaction) string) [][]string {
	hubTxs := make(map[string][]domain.Transaction)
	var hubOrder []string
	for _, tx := range sorted {
		hub := hubOf(tx)
		if _, ok := hubTxs[hub]; !ok {
			hubOrder = append(hubOrder, hub)
		}
		hubTxs[hub] = append(hubTxs[hub], tx)
	}

	var rings [][]string
	for _, hub := range hubOrder {
		txs := hubTxs[hub]
		for i := range txs {
			var window []string
			seen := make(map[string]bool)
			for j := i; j < len(txs); j++ {
				if txs[j].Timestamp.Sub(txs[i].Timestamp) > smurfWindow {
					break
				}
				cp := counterpartyOf(txs[j])
				if !seen[cp] {
					seen[cp] = true
					window = append(window, cp)
				}
			}
			if len(window) >= smurfMinCounterparties {
				rings = append(rings, append([]string{hub}, window...))
				break
			}
		}
	}
	return rings
}
