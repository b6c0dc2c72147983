// Package repository mirrors a finished analysis into the graph database so
// flagged rings can be explored interactively outside the dashboard.
package repository

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/vanshika/muletrace/internal/domain"
	"github.com/vanshika/muletrace/internal/graph"
)

const (
	wipeCypher = `MATCH (n) WHERE n:Account OR n:FraudRing DETACH DELETE n`

	upsertAccountsCypher = `
UNWIND $rows AS row
MERGE (a:Account {accountId: row.accountId})
SET a.totalSent = row.totalSent,
    a.totalReceived = row.totalReceived,
    a.amountSent = row.amountSent,
    a.amountReceived = row.amountReceived,
    a.transactionCount = row.transactionCount,
    a.suspicious = row.suspicious,
    a.suspicionScore = row.suspicionScore,
    a.detectedPatterns = row.detectedPatterns`

	createTransfersCypher = `
UNWIND $rows AS row
MATCH (s:Account {accountId: row.senderId})
MATCH (r:Account {accountId: row.receiverId})
CREATE (s)-[:TRANSFERRED_TO {
    transferId: row.transferId,
    amount: row.amount,
    timestamp: row.timestamp,
    transactionType: row.transactionType
}]->(r)`

	upsertRingsCypher = `
UNWIND $rows AS row
MERGE (g:FraudRing {ringId: row.ringId})
SET g.patternType = row.patternType,
    g.riskScore = row.riskScore
WITH g, row
UNWIND row.members AS memberId
MATCH (a:Account {accountId: memberId})
MERGE (a)-[:MEMBER_OF]->(g)`
)

// edgeBatchSize bounds each transfer write so one oversized UNWIND does not
// stall the store.
const edgeBatchSize = 500

// Repository persists analysis snapshots through a graph.Client.
type Repository struct {
	client graph.Client
}

// New constructs a Repository backed by the provided client.
func New(client graph.Client) *Repository {
	return &Repository{client: client}
}

// MirrorAnalysis replaces the previously mirrored run with the given report:
// account nodes with their suspicion overlay, one relationship per raw
// transfer, and ring nodes linked to their members. Transfer batches are
// written concurrently once all account nodes exist.
func (r *Repository) MirrorAnalysis(ctx context.Context, report domain.Report) error {
	if err := r.Wipe(ctx); err != nil {
		return err
	}

	accountRows := make([]map[string]any, 0, len(report.GraphData.Nodes))
	for _, node := range report.GraphData.Nodes {
		accountRows = append(accountRows, map[string]any{
			"accountId":        node.ID,
			"totalSent":        node.TotalSent,
			"totalReceived":    node.TotalReceived,
			"amountSent":       node.AmountSent,
			"amountReceived":   node.AmountReceived,
			"transactionCount": node.TransactionCount,
			"suspicious":       node.Suspicious,
			"suspicionScore":   node.Score,
			"detectedPatterns": node.DetectedPatterns,
		})
	}
	if len(accountRows) > 0 {
		if _, err := r.client.ExecuteWrite(ctx, upsertAccountsCypher, map[string]any{"rows": accountRows}); err != nil {
			return fmt.Errorf("mirror accounts: %w", err)
		}
	}

	if err := r.mirrorTransfers(ctx, report.GraphData.Edges); err != nil {
		return err
	}

	ringRows := make([]map[string]any, 0, len(report.FraudRings))
	for _, ring := range report.FraudRings {
		ringRows = append(ringRows, map[string]any{
			"ringId":      ring.RingID,
			"patternType": ring.PatternType,
			"riskScore":   ring.RiskScore,
			"members":     ring.MemberAccounts,
		})
	}
	if len(ringRows) > 0 {
		if _, err := r.client.ExecuteWrite(ctx, upsertRingsCypher, map[string]any{"rows": ringRows}); err != nil {
			return fmt.Errorf("mirror rings: %w", err)
		}
	}
	return nil
}

func (r *Repository) mirrorTransfers(ctx context.Context, edges []domain.GraphEdge) error {
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(4)
	for start := 0; start < len(edges); start += edgeBatchSize {
		end := start + edgeBatchSize
		if end > len(edges) {
			end = len(edges)
		}
		batch := edges[start:end]
		eg.Go(func() error {
			rows := make([]map[string]any, 0, len(batch))
			for _, edge := range batch {
				rows = append(rows, map[string]any{
					"transferId":      edge.ID,
					"senderId":        edge.Source,
					"receiverId":      edge.Target,
					"amount":          edge.Amount,
					"timestamp":       edge.Timestamp,
					"transactionType": edge.Type,
				})
			}
			if _, err := r.client.ExecuteWrite(ctx, createTransfersCypher, map[string]any{"rows": rows}); err != nil {
				return fmt.Errorf("mirror transfers: %w", err)
			}
			return nil
		})
	}
	return eg.Wait()
}

// Wipe removes every mirrored account and ring from the store.
func (r *Repository) Wipe(ctx context.Context) error {
	if _, err := r.client.ExecuteWrite(ctx, wipeCypher, nil); err != nil {
		return fmt.Errorf("wipe mirror: %w", err)
	}
	return nil
}
