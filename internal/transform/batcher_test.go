package transform

import (
	"testing"

	"github.com/spacesedan/reviewflow/internal/models"
)

func makeRows(n int) []models.ReviewRow {
	rows := make([]models.ReviewRow, n)
	for i := range rows {
		rows[i] = models.ReviewRow{ItemID: i + 1, Review: "fine"}
	}
	return rows
}

func TestBatch_ExactMultiple(t *testing.T) {
	t.Parallel()

	batches := Batch(makeRows(6), 2)
	if len(batches) != 3 {
		t.Fatalf("batches=%d, want 3", len(batches))
	}
	for i, b := range batches {
		if len(b) != 2 {
			t.Fatalf("batch %d has %d rows, want 2", i, len(b))
		}
	}
	if batches[0][0].ItemID != 1 || batches[2][1].ItemID != 6 {
		t.Fatalf("batching did not preserve input order")
	}
}

func TestBatch_ShortTail(t *testing.T) {
	t.Parallel()

	batches := Batch(makeRows(7), 3)
	if len(batches) != 3 {
		t.Fatalf("batches=%d, want 3", len(batches))
	}
	if len(batches[2]) != 1 {
		t.Fatalf("tail batch has %d rows, want 1", len(batches[2]))
	}
	if batches[2][0].ItemID != 7 {
		t.Fatalf("tail row ItemID=%d, want 7", batches[2][0].ItemID)
	}
}

func TestBatch_Empty(t *testing.T) {
	t.Parallel()

	if batches := Batch(nil, 25); batches != nil {
		t.Fatalf("expected nil batches for empty input, got %d", len(batches))
	}
}
