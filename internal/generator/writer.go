package generator

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/vanshika/muletrace/internal/domain"
)

var csvHeader = []string{"sender_id", "receiver_id", "amount", "timestamp", "transaction_type"}

// WriteCSV serializes the batch into a transaction CSV at the provided path,
// in the format the upload endpoint accepts.
func WriteCSV(txs []domain.Transaction, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, tx := range txs {
		row := []string{
			tx.SenderID,
			tx.ReceiverID,
			strconv.FormatFloat(tx.Amount, 'f', 2, 64),
			tx.Timestamp.UTC().Format(time.RFC3339),
			tx.Type,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
