// Package ingest decodes raw transaction batches from the upload layer into
// domain transactions, applying the lenient coercions the engine expects.
package ingest

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/vanshika/muletrace/internal/domain"
)

// Accepted timestamp layouts, tried in order. Anything else coerces to the
// zero instant; the row is still ingested.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ReadCSV decodes a header-driven transaction CSV. Recognized columns are
// sender_id, receiver_id, amount, timestamp and transaction_type; unknown
// columns are ignored. Rows missing both account ids are skipped; every other
// row is coerced and kept.
func ReadCSV(r io.Reader) ([]domain.Transaction, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}

	var txs []domain.Transaction
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}

		field := func(name string) string {
			idx, ok := columns[name]
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}

		sender := field("sender_id")
		receiver := field("receiver_id")
		if sender == "" && receiver == "" {
			continue
		}

		txs = append(txs, domain.Transaction{
			SenderID:   sender,
			ReceiverID: receiver,
			Amount:     ParseAmount(field("amount")),
			Timestamp:  ParseTimestamp(field("timestamp")),
			Type:       field("transaction_type"),
		})
	}
	return txs, nil
}

// ReadJSON decodes a JSON array of transaction records. Amounts may arrive as
// numbers or strings; either form is coerced the same way as CSV input.
func ReadJSON(r io.Reader) ([]domain.Transaction, error) {
	var records []transactionRecord
	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&records); err != nil {
		return nil, fmt.Errorf("decode transaction batch: %w", err)
	}

	txs := make([]domain.Transaction, 0, len(records))
	for _, rec := range records {
		if rec.SenderID == "" && rec.ReceiverID == "" {
			continue
		}
		txs = append(txs, domain.Transaction{
			SenderID:   rec.SenderID,
			ReceiverID: rec.ReceiverID,
			Amount:     coerceAmount(rec.Amount),
			Timestamp:  ParseTimestamp(rec.Timestamp),
			Type:       rec.Type,
		})
	}
	return txs, nil
}

type transactionRecord struct {
	SenderID   string `json:"sender_id"`
	ReceiverID string `json:"receiver_id"`
	Amount     any    `json:"amount"`
	Timestamp  string `json:"timestamp"`
	Type       string `json:"transaction_type"`
}

// ParseAmount coerces a raw amount string to a number; invalid or missing
// values become 0. Negative and zero amounts pass through untouched.
func ParseAmount(raw string) float64 {
	if raw == "" {
		return 0
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return value
}

func coerceAmount(raw any) float64 {
	switch v := raw.(type) {
	case float64:
		return v
	case string:
		return ParseAmount(v)
	default:
		return 0
	}
}

// ParseTimestamp coerces a raw timestamp to a comparable instant. Unix
// seconds are accepted alongside the textual layouts; unparseable input
// yields the zero instant.
func ParseTimestamp(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts
		}
	}
	if secs, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return time.Unix(secs, 0).UTC()
	}
	return time.Time{}
}
