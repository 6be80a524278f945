package transform

import (
	"log/slog"

	"github.com/spacesedan/reviewflow/internal/models"
)

// Batch splits rows into order-preserving batches of size. All batches hold
// exactly size rows except a possibly short trailing one; the engine relaxes
// the response schema for that call instead of padding.
func Batch(rows []models.ReviewRow, size int) [][]models.ReviewRow {
	if len(rows) == 0 {
		return nil
	}

	batches := make([][]models.ReviewRow, 0, (len(rows)+size-1)/size)
	for i := 0; i < len(rows); i += size {
		end := i + size
		if end > len(rows) {
			end = len(rows)
		}
		batches = append(batches, rows[i:end])
	}

	slog.Info("[Batcher] Created batches",
		slog.Int("rows", len(rows)),
		slog.Int("batches", len(batches)))
	return batches
}
