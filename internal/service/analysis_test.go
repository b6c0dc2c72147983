package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/vanshika/muletrace/internal/domain"
	"github.com/vanshika/muletrace/internal/logging"
)

type stubMirror struct {
	reports []domain.Report
	err     error
}

func (m *stubMirror) MirrorAnalysis(_ context.Context, report domain.Report) error {
	m.reports = append(m.reports, report)
	return m.err
}

func sampleBatch(n int) []domain.Transaction {
	txs := make([]domain.Transaction, 0, n)
	base := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		txs = append(txs, domain.Transaction{
			SenderID:   "A",
			ReceiverID: "B",
			Amount:     10,
			Timestamp:  base.Add(time.Duration(i*200) * time.Hour),
		})
	}
	return txs
}

func TestAnalyzeBatchEnforcesCap(t *testing.T) {
	svc := NewAnalysisService(logging.Discard(), nil, 2)

	if _, err := svc.AnalyzeBatch(context.Background(), sampleBatch(2)); err != nil {
		t.Fatalf("batch at the cap must pass, got %v", err)
	}

	_, err := svc.AnalyzeBatch(context.Background(), sampleBatch(3))
	if !errors.Is(err, ErrBatchTooLarge) {
		t.Fatalf("expected ErrBatchTooLarge, got %v", err)
	}
}

func TestAnalyzeBatchMirrors(t *testing.T) {
	mirror := &stubMirror{}
	svc := NewAnalysisService(logging.Discard(), mirror, 0)

	report, err := svc.AnalyzeBatch(context.Background(), sampleBatch(2))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(mirror.reports) != 1 {
		t.Fatalf("expected 1 mirrored report, got %d", len(mirror.reports))
	}
	if mirror.reports[0].Summary.TotalAccountsAnalyzed != report.Summary.TotalAccountsAnalyzed {
		t.Fatal("mirrored report differs from returned report")
	}
}

func TestAnalyzeBatchMirrorFailureIsNotFatal(t *testing.T) {
	mirror := &stubMirror{err: errors.New("store down")}
	svc := NewAnalysisService(logging.Discard(), mirror, 0)

	if _, err := svc.AnalyzeBatch(context.Background(), sampleBatch(2)); err != nil {
		t.Fatalf("mirror failure must not fail the analysis, got %v", err)
	}
}

func TestAnalyzeCSVProcessingTime(t *testing.T) {
	svc := NewAnalysisService(logging.Discard(), nil, 0)

	base := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	calls := 0
	svc.WithClock(func() time.Time {
		calls++
		// First call samples the start, the second the elapsed time.
		return base.Add(time.Duration(calls-1) * 3 * time.Second)
	})

	csv := "sender_id,receiver_id,amount,timestamp\nA,B,10,2025-03-01T00:00:00Z\n"
	report, err := svc.AnalyzeCSV(context.Background(), strings.NewReader(csv))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if report.Summary.ProcessingTimeSeconds != 3 {
		t.Fatalf("expected 3s processing time, got %v", report.Summary.ProcessingTimeSeconds)
	}
	if report.Summary.TotalAccountsAnalyzed != 2 {
		t.Fatalf("expected 2 accounts, got %d", report.Summary.TotalAccountsAnalyzed)
	}
}

func TestAnalyzeCSVMalformed(t *testing.T) {
	svc := NewAnalysisService(logging.Discard(), nil, 0)
	_, err := svc.AnalyzeCSV(context.Background(), strings.NewReader("a,b\n\"unterminated"))
	if err == nil {
		t.Fatal("expected parse error")
	}
}
