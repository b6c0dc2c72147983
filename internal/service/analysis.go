// Package service wraps the analytical engine with the concerns the core
// deliberately leaves to its caller: input-size limits, wall-clock
// measurement, and the optional graph-store mirror.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/vanshika/muletrace/internal/domain"
	"github.com/vanshika/muletrace/internal/engine"
	"github.com/vanshika/muletrace/internal/ingest"
)

// ErrBatchTooLarge indicates the uploaded batch exceeds the configured
// transaction cap.
var ErrBatchTooLarge = errors.New("transaction batch too large")

// Mirror is the persistence contract for the optional analysis mirror.
type Mirror interface {
	MirrorAnalysis(ctx context.Context, report domain.Report) error
}

// AnalysisService runs complete batches through the engine. One service
// instance may serve concurrent requests: every run builds its own graph and
// score accumulators.
type AnalysisService struct {
	logger          *slog.Logger
	mirror          Mirror
	maxTransactions int
	nowFn           func() time.Time
}

// NewAnalysisService constructs an AnalysisService. mirror may be nil to
// disable mirroring; maxTransactions <= 0 disables the cap.
func NewAnalysisService(logger *slog.Logger, mirror Mirror, maxTransactions int) *AnalysisService {
	return &AnalysisService{
		logger:          logger,
		mirror:          mirror,
		maxTransactions: maxTransactions,
		nowFn:           time.Now,
	}
}

// WithClock overrides the time provider (used primarily in tests).
func (s *AnalysisService) WithClock(nowFn func() time.Time) {
	if nowFn != nil {
		s.nowFn = nowFn
	}
}

// AnalyzeCSV decodes a transaction CSV stream and analyzes it. The reported
// processing time covers parsing and detection.
func (s *AnalysisService) AnalyzeCSV(ctx context.Context, r io.Reader) (domain.Report, error) {
	start := s.nowFn()
	txs, err := ingest.ReadCSV(r)
	if err != nil {
		return domain.Report{}, fmt.Errorf("parse csv: %w", err)
	}
	return s.analyze(ctx, txs, start)
}

// AnalyzeBatch analyzes an already-decoded transaction batch.
func (s *AnalysisService) AnalyzeBatch(ctx context.Context, txs []domain.Transaction) (domain.Report, error) {
	return s.analyze(ctx, txs, s.nowFn())
}

func (s *AnalysisService) analyze(ctx context.Context, txs []domain.Transaction, start time.Time) (domain.Report, error) {
	if s.maxTransactions > 0 && len(txs) > s.maxTransactions {
		return domain.Report{}, fmt.Errorf("%w: %d transactions, limit %d", ErrBatchTooLarge, len(txs), s.maxTransactions)
	}

	report := engine.Analyze(ctx, txs, func() float64 {
		return s.nowFn().Sub(start).Seconds()
	})

	s.logger.Info("analysis complete",
		"transactions", len(txs),
		"accounts", report.Summary.TotalAccountsAnalyzed,
		"rings", report.Summary.FraudRingsDetected,
		"flagged", report.Summary.SuspiciousAccountsFlagged,
	)

	// Mirroring is best-effort: a failed mirror never fails the analysis.
	if s.mirror != nil {
		if err := s.mirror.MirrorAnalysis(ctx, report); err != nil {
			s.logger.Warn("graph mirror failed", "error", err)
		}
	}
	return report, nil
}
