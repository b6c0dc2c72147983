package engine

import (
	"sort"
	"strings"
	"testing"

	"github.com/vanshika/muletrace/internal/domain"
)

func buildGraph(txs ...domain.Transaction) *TransactionGraph {
	g := NewTransactionGraph()
	g.Ingest(txs)
	return g
}

func chain(accounts ...string) []domain.Transaction {
	txs := make([]domain.Transaction, 0, len(accounts)-1)
	for i := 0; i < len(accounts)-1; i++ {
		txs = append(txs, tx(accounts[i], accounts[i+1], 100, ts(i)))
	}
	return txs
}

func ring(accounts ...string) []domain.Transaction {
	return chain(append(accounts, accounts[0])...)
}

func memberSet(members []string) string {
	sorted := append([]string(nil), members...)
	sort.Strings(sorted)
	return strings.Join(sorted, ",")
}

func TestDetectCyclesSimpleTriangle(t *testing.T) {
	g := buildGraph(ring("A", "B", "C")...)

	cycles := DetectCycles(g)
	if len(cycles) != 1 {
		t.Fatalf("expected 1 cycle, got %d: %v", len(cycles), cycles)
	}
	if got := memberSet(cycles[0]); got != "A,B,C" {
		t.Fatalf("expected members {A,B,C}, got %s", got)
	}
}

func TestDetectCyclesIgnoresTwoAccountLoops(t *testing.T) {
	g := buildGraph(
		tx("A", "B", 100, ts(0)),
		tx("B", "A", 100, ts(1)),
	)
	if cycles := DetectCycles(g); len(cycles) != 0 {
		t.Fatalf("2-account loop must not count as a cycle, got %v", cycles)
	}
}

func TestDetectCyclesDepthCap(t *testing.T) {
	// 7-account cycle exceeds the 6-account bound.
	g := buildGraph(ring("A", "B", "C", "D", "E", "F", "G")...)
	if cycles := DetectCycles(g); len(cycles) != 0 {
		t.Fatalf("cycle longer than 6 accounts must not be reported, got %v", cycles)
	}

	// 6-account cycle sits exactly on the bound.
	g = buildGraph(ring("A", "B", "C", "D", "E", "F")...)
	cycles := DetectCycles(g)
	if len(cycles) != 1 || len(cycles[0]) != 6 {
		t.Fatalf("expected one 6-account cycle, got %v", cycles)
	}
}

func TestDetectCyclesDeduplicatesRotations(t *testing.T) {
	// Every member is also a start node, so the same cycle is discovered in
	// multiple rotations; only one representative survives.
	g := buildGraph(ring("A", "B", "C", "D")...)
	cycles := DetectCycles(g)
	if len(cycles) != 1 {
		t.Fatalf("rotations of one cycle must collapse to a single ring, got %d", len(cycles))
	}
}

func TestDetectCyclesDisjointCycles(t *testing.T) {
	txs := append(ring("A", "B", "C"), ring("X", "Y", "Z")...)
	g := buildGraph(txs...)

	cycles := DetectCycles(g)
	if len(cycles) != 2 {
		t.Fatalf("expected 2 cycles, got %d: %v", len(cycles), cycles)
	}
	sets := map[string]bool{}
	for _, c := range cycles {
		sets[memberSet(c)] = true
	}
	if !sets["A,B,C"] || !sets["X,Y,Z"] {
		t.Fatalf("unexpected cycle sets: %v", sets)
	}
}

func TestDetectCyclesEmptyGraph(t *testing.T) {
	if cycles := DetectCycles(NewTransactionGraph()); len(cycles) != 0 {
		t.Fatalf("expected no cycles on empty graph, got %v", cycles)
	}
}
