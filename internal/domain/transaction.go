package domain

import "time"

// Transaction models a single money transfer in an analysis batch. Values are
// immutable once ingested; amount and timestamp arrive pre-coerced by the
// ingestion layer (invalid amount becomes 0, unparseable timestamp becomes the
// zero instant).
type Transaction struct {
	SenderID   string    `json:"sender_id"`
	ReceiverID string    `json:"receiver_id"`
	Amount     float64   `json:"amount"`
	Timestamp  time.Time `json:"timestamp"`
	Type       string    `json:"transaction_type,omitempty"`
}
