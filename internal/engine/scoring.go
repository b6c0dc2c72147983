package engine

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/vanshika/muletrace/internal/domain"
)

// Fixed raw-score contributions per detected pattern, plus the reference
// ceiling used to project raw scores onto the 0-100 presentation scale. The
// ceiling is a constant, not a computed maximum, so an account caught in
// enough overlapping patterns can nominally exceed 100.
const (
	cycleContribution    = 40
	fanInContribution    = 25
	fanOutContribution   = 25
	shellContribution    = 15
	velocityContribution = 5
	rawScoreCeiling      = 110
)

// High-velocity thresholds: an account qualifies when it turns over more than
// 0.5 transactions per active hour, or more than 5 transactions total when
// its active duration collapses to zero.
const (
	velocityMinRate    = 0.5
	velocityMinBurstTx = 5
)

// DetectionResults collects the raw output of the three detectors in the
// order the scoring engine consumes them.
type DetectionResults struct {
	Cycles [][]string
	FanIn  [][]string
	FanOut [][]string
	Shells [][]string
}

// accountScore accumulates one account's raw signal. Pattern labels and ring
// ids keep insertion order: the first attached ring is the one reported on
// the account.
type accountScore struct {
	raw         float64
	patterns    []string
	patternSeen map[string]bool
	ringIDs     []string
	ringSeen    map[string]bool
}

// scorer owns the per-run ring-id counter and score accumulators. It is
// created fresh for every report, so concurrent runs never share state.
type scorer struct {
	ringCounter int
	accounts    map[string]*accountScore
	order       []string
	rings       []domain.FraudRing
}

func newScorer() *scorer {
	return &scorer{accounts: make(map[string]*accountScore)}
}

func (s *scorer) nextRingID() string {
	s.ringCounter++
	return fmt.Sprintf("RING_%03d", s.ringCounter)
}

func (s *scorer) add(account string, contribution float64, pattern, ringID string) {
	entry, ok := s.accounts[account]
	if !ok {
		entry = &accountScore{
			patternSeen: make(map[string]bool),
			ringSeen:    make(map[string]bool),
		}
		s.accounts[account] = entry
		s.order = append(s.order, account)
	}
	entry.raw += contribution
	if !entry.patternSeen[pattern] {
		entry.patternSeen[pattern] = true
		entry.patterns = append(entry.patterns, pattern)
	}
	if ringID != "" && !entry.ringSeen[ringID] {
		entry.ringSeen[ringID] = true
		entry.ringIDs = append(entry.ringIDs, ringID)
	}
}

func (s *scorer) addRing(members []string, patternType, label string, contribution float64) {
	ringID := s.nextRingID()
	for _, account := range members {
		s.add(account, contribution, label, ringID)
	}
	s.rings = append(s.rings, domain.FraudRing{
		RingID:         ringID,
		MemberAccounts: members,
		PatternType:    patternType,
	})
}

// BuildReport converts the graph and raw detector output into the final
// report. Ring ids are assigned in generation order: cycles, then fan-in,
// then fan-out, then shell. processingSeconds is measured by the caller
// around the whole pipeline and passed through to the summary untouched.
func BuildReport(g *TransactionGraph, results DetectionResults, processingSeconds float64) domain.Report {
	sc := newScorer()

	for _, cycle := range results.Cycles {
		label := fmt.Sprintf("cycle_length_%d", len(cycle))
		sc.addRing(cycle, domain.PatternCycle, label, cycleContribution)
	}
	for _, ring := range results.FanIn {
		sc.addRing(ring, domain.PatternFanIn, domain.PatternFanIn, fanInContribution)
	}
	for _, ring := range results.FanOut {
		sc.addRing(ring, domain.PatternFanOut, domain.PatternFanOut, fanOutContribution)
	}
	for _, chain := range results.Shells {
		sc.addRing(chain, domain.PatternShell, "shell_layer", shellContribution)
	}

	// Velocity bonus is ring-independent: it raises the account's raw score
	// without creating a ring.
	for _, id := range g.Accounts() {
		if highVelocity(g.Node(id)) {
			sc.add(id, velocityContribution, "high_velocity", "")
		}
	}

	suspicious := make([]domain.SuspiciousAccount, 0, len(sc.order))
	finalScores := make(map[string]float64, len(sc.order))
	for _, id := range sc.order {
		entry := sc.accounts[id]
		if entry.raw <= 0 {
			continue
		}
		score := roundTo1(entry.raw / rawScoreCeiling * 100)
		finalScores[id] = score

		var ringID *string
		if len(entry.ringIDs) > 0 {
			ringID = &entry.ringIDs[0]
		}
		suspicious = append(suspicious, domain.SuspiciousAccount{
			AccountID:        id,
			SuspicionScore:   score,
			DetectedPatterns: entry.patterns,
			RingID:           ringID,
		})
	}

	// Stable sort: ties keep encounter order.
	sort.SliceStable(suspicious, func(i, j int) bool {
		return suspicious[i].SuspicionScore > suspicious[j].SuspicionScore
	})

	rings := sc.rings
	for i := range rings {
		rings[i].RiskScore = ringRiskScore(rings[i].MemberAccounts, finalScores)
	}

	return domain.Report{
		SuspiciousAccounts: suspicious,
		FraudRings:         rings,
		Summary: domain.Summary{
			TotalAccountsAnalyzed:     g.Size(),
			SuspiciousAccountsFlagged: len(suspicious),
			FraudRingsDetected:        len(rings),
			ProcessingTimeSeconds:     processingSeconds,
		},
		GraphData: buildSnapshot(g, sc, finalScores),
	}
}

func highVelocity(node *AccountNode) bool {
	if node == nil {
		return false
	}
	duration := node.LastTx.Sub(node.FirstTx).Hours()
	if duration <= 0 {
		return node.TransactionCount > velocityMinBurstTx
	}
	return float64(node.TransactionCount)/math.Max(duration, 1) > velocityMinRate
}

// ringRiskScore averages the final suspicion scores of the ring's members.
// Members without a computed score are excluded from both the sum and the
// divisor.
func ringRiskScore(members []string, finalScores map[string]float64) float64 {
	var total float64
	var counted int
	for _, id := range members {
		if score, ok := finalScores[id]; ok {
			total += score
			counted++
		}
	}
	if counted == 0 {
		return 0
	}
	return roundTo1(total / float64(counted))
}

// buildSnapshot projects every node and transaction into the rendering-ready
// structure. It reads scoring output but never feeds back into it.
func buildSnapshot(g *TransactionGraph, sc *scorer, finalScores map[string]float64) domain.GraphData {
	nodes := make([]domain.GraphNode, 0, g.Size())
	for _, id := range g.Accounts() {
		node := g.Node(id)
		gn := domain.GraphNode{
			ID:               id,
			TotalSent:        node.TotalSent,
			TotalReceived:    node.TotalReceived,
			AmountSent:       node.AmountSent,
			AmountReceived:   node.AmountReceived,
			TransactionCount: node.TransactionCount,
			FirstTx:          formatInstant(node.FirstTx),
			LastTx:           formatInstant(node.LastTx),
			DetectedPatterns: []string{},
		}
		if score, ok := finalScores[id]; ok {
			entry := sc.accounts[id]
			gn.Suspicious = true
			gn.Score = score
			gn.DetectedPatterns = entry.patterns
			if len(entry.ringIDs) > 0 {
				gn.RingID = &entry.ringIDs[0]
			}
		}
		nodes = append(nodes, gn)
	}

	txs := g.Transactions()
	edges := make([]domain.GraphEdge, 0, len(txs))
	for i, tx := range txs {
		edges = append(edges, domain.GraphEdge{
			ID:        fmt.Sprintf("tx_%d", i),
			Source:    tx.SenderID,
			Target:    tx.ReceiverID,
			Amount:    tx.Amount,
			Timestamp: formatInstant(tx.Timestamp),
			Type:      tx.Type,
		})
	}

	return domain.GraphData{Nodes: nodes, Edges: edges}
}

func formatInstant(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func roundTo1(v float64) float64 {
	return math.Round(v*10) / 10
}
