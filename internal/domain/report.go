package domain

// Pattern type values carried by FraudRing records.
const (
	PatternCycle  = "cycle"
	PatternFanIn  = "fan_in"
	PatternFanOut = "fan_out"
	PatternShell  = "shell"
)

// SuspiciousAccount is one scored account in the final report. RingID is nil
// for accounts flagged only by the high-velocity heuristic.
type SuspiciousAccount struct {
	AccountID        string   `json:"account_id"`
	SuspicionScore   float64  `json:"suspicion_score"`
	DetectedPatterns []string `json:"detected_patterns"`
	RingID           *string  `json:"ring_id"`
}

// FraudRing is one detected group of accounts sharing a suspicious pattern
// instance.
type FraudRing struct {
	RingID         string   `json:"ring_id"`
	MemberAccounts []string `json:"member_accounts"`
	PatternType    string   `json:"pattern_type"`
	RiskScore      float64  `json:"risk_score"`
}

// Summary aggregates run-level counts for the dashboard header.
type Summary struct {
	TotalAccountsAnalyzed     int     `json:"total_accounts_analyzed"`
	SuspiciousAccountsFlagged int     `json:"suspicious_accounts_flagged"`
	FraudRingsDetected        int     `json:"fraud_rings_detected"`
	ProcessingTimeSeconds     float64 `json:"processing_time_seconds"`
}

// GraphNode merges an account's aggregates with its suspicion overlay for the
// rendering-ready snapshot exposed to the presentation layer.
type GraphNode struct {
	ID               string   `json:"id"`
	TotalSent        int      `json:"total_sent"`
	TotalReceived    int      `json:"total_received"`
	AmountSent       float64  `json:"amount_sent"`
	AmountReceived   float64  `json:"amount_received"`
	TransactionCount int      `json:"transaction_count"`
	FirstTx          string   `json:"first_tx"`
	LastTx           string   `json:"last_tx"`
	Suspicious       bool     `json:"suspicious"`
	Score            float64  `json:"score"`
	DetectedPatterns []string `json:"detected_patterns"`
	RingID           *string  `json:"ring_id"`
}

// GraphEdge is one raw transaction projected into the snapshot.
type GraphEdge struct {
	ID        string  `json:"id"`
	Source    string  `json:"source"`
	Target    string  `json:"target"`
	Amount    float64 `json:"amount"`
	Timestamp string  `json:"timestamp"`
	Type      string  `json:"transaction_type,omitempty"`
}

// GraphData is the full snapshot consumed by the graph visualization.
type GraphData struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// Report is the complete JSON-serializable output of one analysis run.
type Report struct {
	SuspiciousAccounts []SuspiciousAccount `json:"suspicious_accounts"`
	FraudRings         []FraudRing         `json:"fraud_rings"`
	Summary            Summary             `json:"summary"`
	GraphData          GraphData           `json:"graph_data"`
}
