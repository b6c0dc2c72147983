package engine

import (
	"math"
	"time"

	"github.com/vanshika/muletrace/internal/domain"
)

// AccountNode aggregates per-account activity observed while building the
// graph. Counters and sums grow monotonically over a batch; nodes are never
// removed within a run.
type AccountNode struct {
	ID               string
	TotalSent        int
	TotalReceived    int
	AmountSent       float64
	AmountReceived   float64
	TransactionCount int
	FirstTx          time.Time
	LastTx           time.Time
}

// TransactionGraph is the directed multigraph built from one transaction
// batch. Parallel edges are preserved because edge multiplicity feeds the
// degree-based heuristics downstream. Account iteration order is the order of
// first appearance in the input, which keeps detector output deterministic.
type TransactionGraph struct {
	nodes        map[string]*AccountNode
	order        []string
	outgoing     map[string][]string
	incoming     map[string][]string
	transactions []domain.Transaction
}

// NewTransactionGraph returns an empty graph ready for ingestion.
func NewTransactionGraph() *TransactionGraph {
	return &TransactionGraph{
		nodes:    make(map[string]*AccountNode),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
	}
}

// Ingest adds every transaction of the batch to the graph. Self-transfers and
// non-positive amounts are accepted as-is; a non-finite amount is coerced to
// zero.
func (g *TransactionGraph) Ingest(txs []domain.Transaction) {
	for _, tx := range txs {
		g.addTransaction(tx)
	}
}

func (g *TransactionGraph) addTransaction(tx domain.Transaction) {
	if math.IsNaN(tx.Amount) || math.IsInf(tx.Amount, 0) {
		tx.Amount = 0
	}

	sender := g.node(tx.SenderID, tx.Timestamp)
	receiver := g.node(tx.ReceiverID, tx.Timestamp)

	sender.TotalSent++
	sender.AmountSent += tx.Amount
	sender.TransactionCount++
	sender.observe(tx.Timestamp)

	receiver.TotalReceived++
	receiver.AmountReceived += tx.Amount
	receiver.TransactionCount++
	receiver.observe(tx.Timestamp)

	g.outgoing[tx.SenderID] = append(g.outgoing[tx.SenderID], tx.ReceiverID)
	g.incoming[tx.ReceiverID] = append(g.incoming[tx.ReceiverID], tx.SenderID)
	g.transactions = append(g.transactions, tx)
}

func (g *TransactionGraph) node(id string, ts time.Time) *AccountNode {
	if n, ok := g.nodes[id]; ok {
		return n
	}
	n := &AccountNode{ID: id, FirstTx: ts, LastTx: ts}
	g.nodes[id] = n
	g.order = append(g.order, id)
	return n
}

func (n *AccountNode) observe(ts time.Time) {
	if ts.Before(n.FirstTx) {
		n.FirstTx = ts
	}
	if ts.After(n.LastTx) {
		n.LastTx = ts
	}
}

// Node returns the aggregate record for the given account id, or nil.
func (g *TransactionGraph) Node(id string) *AccountNode {
	return g.nodes[id]
}

// Accounts returns account ids in first-appearance order.
func (g *TransactionGraph) Accounts() []string {
	return g.order
}

// Outgoing returns the receivers of every transaction sent by the account,
// one entry per transaction.
func (g *TransactionGraph) Outgoing(id string) []string {
	return g.outgoing[id]
}

// Incoming returns the senders of every transaction received by the account,
// one entry per transaction.
func (g *TransactionGraph) Incoming(id string) []string {
	return g.incoming[id]
}

// Transactions returns the stored batch in input order.
func (g *TransactionGraph) Transactions() []domain.Transaction {
	return g.transactions
}

// Size reports the number of distinct accounts in the graph.
func (g *TransactionGraph) Size() int {
	return len(g.nodes)
}
