package engine

import (
	"testing"
	"time"

	"github.com/vanshika/muletrace/internal/domain"
)

// slowChain spaces transfers 100 hours apart so the high-velocity heuristic
// stays quiet and score assertions see only ring contributions.
func slowChain(accounts ...string) []domain.Transaction {
	txs := make([]domain.Transaction, 0, len(accounts)-1)
	for i := 0; i < len(accounts)-1; i++ {
		txs = append(txs, tx(accounts[i], accounts[i+1], 100, ts(i*100)))
	}
	return txs
}

func slowRing(accounts ...string) []domain.Transaction {
	return slowChain(append(accounts, accounts[0])...)
}

func TestBuildReportCycleScoring(t *testing.T) {
	g := buildGraph(slowRing("A", "B", "C")...)
	results := DetectionResults{Cycles: [][]string{{"A", "B", "C"}}}

	report := BuildReport(g, results, 0.5)

	if len(report.FraudRings) != 1 {
		t.Fatalf("expected 1 ring, got %d", len(report.FraudRings))
	}
	ring := report.FraudRings[0]
	if ring.RingID != "RING_001" {
		t.Errorf("expected RING_001, got %s", ring.RingID)
	}
	if ring.PatternType != domain.PatternCycle {
		t.Errorf("expected cycle pattern, got %s", ring.PatternType)
	}

	if len(report.SuspiciousAccounts) != 3 {
		t.Fatalf("expected 3 scored accounts, got %d", len(report.SuspiciousAccounts))
	}
	for _, acc := range report.SuspiciousAccounts {
		// raw 40 -> 40/110*100 = 36.4 after rounding
		if acc.SuspicionScore != 36.4 {
			t.Errorf("%s: expected score 36.4, got %.1f", acc.AccountID, acc.SuspicionScore)
		}
		if len(acc.DetectedPatterns) != 1 || acc.DetectedPatterns[0] != "cycle_length_3" {
			t.Errorf("%s: expected [cycle_length_3], got %v", acc.AccountID, acc.DetectedPatterns)
		}
		if acc.RingID == nil || *acc.RingID != "RING_001" {
			t.Errorf("%s: expected ring RING_001, got %v", acc.AccountID, acc.RingID)
		}
	}

	if ring.RiskScore != 36.4 {
		t.Errorf("expected ring risk 36.4, got %.1f", ring.RiskScore)
	}
	if report.Summary.ProcessingTimeSeconds != 0.5 {
		t.Errorf("processing time must pass through, got %v", report.Summary.ProcessingTimeSeconds)
	}
}

func TestBuildReportRingIDGenerationOrder(t *testing.T) {
	txs := slowRing("A", "B", "C")
	txs = append(txs, slowChain("H", "I", "J", "K")...)
	g := buildGraph(txs...)

	results := DetectionResults{
		Cycles: [][]string{{"A", "B", "C"}},
		FanIn:  [][]string{{"H", "A", "B"}},
		FanOut: [][]string{{"I", "C", "J"}},
		Shells: [][]string{{"H", "I", "J", "K"}},
	}
	report := BuildReport(g, results, 0)

	wantTypes := []string{domain.PatternCycle, domain.PatternFanIn, domain.PatternFanOut, domain.PatternShell}
	if len(report.FraudRings) != len(wantTypes) {
		t.Fatalf("expected %d rings, got %d", len(wantTypes), len(report.FraudRings))
	}
	for i, ring := range report.FraudRings {
		wantID := []string{"RING_001", "RING_002", "RING_003", "RING_004"}[i]
		if ring.RingID != wantID {
			t.Errorf("ring %d: expected %s, got %s", i, wantID, ring.RingID)
		}
		if ring.PatternType != wantTypes[i] {
			t.Errorf("ring %d: expected type %s, got %s", i, wantTypes[i], ring.PatternType)
		}
	}
}

func TestBuildReportOverlappingPatterns(t *testing.T) {
	txs := slowRing("A", "B", "C")
	txs = append(txs, slowChain("A", "X", "Y", "Z")...)
	g := buildGraph(txs...)

	results := DetectionResults{
		Cycles: [][]string{{"A", "B", "C"}},
		Shells: [][]string{{"A", "X", "Y", "Z"}},
	}
	report := BuildReport(g, results, 0)

	scores := map[string]domain.SuspiciousAccount{}
	for _, acc := range report.SuspiciousAccounts {
		scores[acc.AccountID] = acc
	}

	// A: 40 + 15 = 55 raw -> 50.0
	if got := scores["A"].SuspicionScore; got != 50.0 {
		t.Errorf("A: expected 50.0, got %.1f", got)
	}
	// B, C: 40 raw -> 36.4; X, Y, Z: 15 raw -> 13.6
	for _, id := range []string{"B", "C"} {
		if got := scores[id].SuspicionScore; got != 36.4 {
			t.Errorf("%s: expected 36.4, got %.1f", id, got)
		}
	}
	for _, id := range []string{"X", "Y", "Z"} {
		if got := scores[id].SuspicionScore; got != 13.6 {
			t.Errorf("%s: expected 13.6, got %.1f", id, got)
		}
	}

	// A belongs to both rings but reports the first it joined.
	if scores["A"].RingID == nil || *scores["A"].RingID != "RING_001" {
		t.Errorf("A: expected first ring RING_001, got %v", scores["A"].RingID)
	}
	wantPatterns := []string{"cycle_length_3", "shell_layer"}
	if got := scores["A"].DetectedPatterns; len(got) != 2 || got[0] != wantPatterns[0] || got[1] != wantPatterns[1] {
		t.Errorf("A: expected patterns %v, got %v", wantPatterns, got)
	}

	// Cycle ring: (50.0 + 36.4 + 36.4) / 3 = 40.9 rounded.
	if got := report.FraudRings[0].RiskScore; got != 40.9 {
		t.Errorf("cycle ring risk: expected 40.9, got %.1f", got)
	}
	// Shell ring: (50.0 + 13.6*3) / 4 = 22.7.
	if got := report.FraudRings[1].RiskScore; got != 22.7 {
		t.Errorf("shell ring risk: expected 22.7, got %.1f", got)
	}

	// Sorted descending; ties keep encounter order.
	want := []string{"A", "B", "C", "X", "Y", "Z"}
	for i, acc := range report.SuspiciousAccounts {
		if acc.AccountID != want[i] {
			t.Fatalf("sort order mismatch at %d: want %s got %s", i, want[i], acc.AccountID)
		}
	}
}

func TestBuildReportHighVelocity(t *testing.T) {
	// Six transfers at the same instant: zero duration, count above 5.
	at := ts(0)
	var txs []domain.Transaction
	for _, r := range []string{"R1", "R2", "R3", "R4", "R5", "R6"} {
		txs = append(txs, tx("V", r, 10, at))
	}
	g := buildGraph(txs...)

	report := BuildReport(g, DetectionResults{}, 0)

	if len(report.SuspiciousAccounts) != 1 {
		t.Fatalf("expected only the velocity account flagged, got %d", len(report.SuspiciousAccounts))
	}
	acc := report.SuspiciousAccounts[0]
	if acc.AccountID != "V" {
		t.Fatalf("expected V flagged, got %s", acc.AccountID)
	}
	// raw 5 -> 5/110*100 = 4.5
	if acc.SuspicionScore != 4.5 {
		t.Errorf("expected score 4.5, got %.1f", acc.SuspicionScore)
	}
	if len(acc.DetectedPatterns) != 1 || acc.DetectedPatterns[0] != "high_velocity" {
		t.Errorf("expected [high_velocity], got %v", acc.DetectedPatterns)
	}
	if acc.RingID != nil {
		t.Errorf("velocity-only account must carry no ring id, got %v", *acc.RingID)
	}
	if report.Summary.FraudRingsDetected != 0 {
		t.Errorf("velocity never creates a ring, got %d", report.Summary.FraudRingsDetected)
	}
}

func TestBuildReportVelocityRate(t *testing.T) {
	// Two transactions 100 hours apart: 2/100 = 0.02, below the rate bar.
	g := buildGraph(
		tx("A", "B", 10, ts(0)),
		tx("A", "B", 10, ts(100)),
	)
	report := BuildReport(g, DetectionResults{}, 0)
	if len(report.SuspiciousAccounts) != 0 {
		t.Fatalf("slow accounts must not be flagged, got %v", report.SuspiciousAccounts)
	}

	// Six transactions inside 4 hours: 6/4 = 1.5 > 0.5.
	var txs []domain.Transaction
	for i := 0; i < 6; i++ {
		txs = append(txs, tx("F", "B", 10, ts(0).Add(time.Duration(i*40)*time.Minute)))
	}
	g = buildGraph(txs...)
	report = BuildReport(g, DetectionResults{}, 0)

	flagged := map[string]bool{}
	for _, acc := range report.SuspiciousAccounts {
		flagged[acc.AccountID] = true
	}
	if !flagged["F"] {
		t.Fatal("expected F flagged as high velocity")
	}
	// B received the same six transactions in the same window.
	if !flagged["B"] {
		t.Fatal("expected B flagged as high velocity")
	}
}

func TestBuildReportScoreUnclamped(t *testing.T) {
	txs := slowRing("A", "B", "C")
	txs = append(txs, slowRing("A", "D", "E")...)
	txs = append(txs, slowRing("A", "F", "G")...)
	g := buildGraph(txs...)

	results := DetectionResults{Cycles: [][]string{
		{"A", "B", "C"},
		{"A", "D", "E"},
		{"A", "F", "G"},
	}}
	report := BuildReport(g, results, 0)

	// A: raw 120 -> 120/110*100 = 109.1; scores are deliberately not capped
	// at 100.
	if got := report.SuspiciousAccounts[0].SuspicionScore; got != 109.1 {
		t.Fatalf("expected unclamped 109.1, got %.1f", got)
	}
}

func TestBuildReportSnapshot(t *testing.T) {
	g := buildGraph(slowRing("A", "B", "C")...)
	report := BuildReport(g, DetectionResults{Cycles: [][]string{{"A", "B", "C"}}}, 0)

	if len(report.GraphData.Nodes) != 3 {
		t.Fatalf("expected 3 snapshot nodes, got %d", len(report.GraphData.Nodes))
	}
	if len(report.GraphData.Edges) != 3 {
		t.Fatalf("expected 3 snapshot edges, got %d", len(report.GraphData.Edges))
	}

	node := report.GraphData.Nodes[0]
	if node.ID != "A" || !node.Suspicious || node.Score != 36.4 {
		t.Errorf("unexpected overlay on node A: %+v", node)
	}
	if node.TransactionCount != 2 {
		t.Errorf("node A aggregates: expected 2 transactions, got %d", node.TransactionCount)
	}

	edge := report.GraphData.Edges[0]
	if edge.ID != "tx_0" || edge.Source != "A" || edge.Target != "B" {
		t.Errorf("unexpected first edge: %+v", edge)
	}
}

func TestBuildReportEmptyInput(t *testing.T) {
	report := BuildReport(NewTransactionGraph(), DetectionResults{}, 0.01)
	if report.Summary.TotalAccountsAnalyzed != 0 ||
		report.Summary.SuspiciousAccountsFlagged != 0 ||
		report.Summary.FraudRingsDetected != 0 {
		t.Fatalf("expected empty summary, got %+v", report.Summary)
	}
	if len(report.SuspiciousAccounts) != 0 || len(report.FraudRings) != 0 {
		t.Fatalf("expected empty report sections")
	}
}
