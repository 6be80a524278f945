package transform

import (
	"context"
	"encoding/json"
	"reflect"
	"testing"

	"github.com/spacesedan/reviewflow/config"
	"github.com/spacesedan/reviewflow/internal/models"
)

func transformerConfig() *config.ETLConfig {
	return &config.ETLConfig{
		BucketName:   "reviews",
		Path:         "bronze/new",
		Model:        "m",
		BaseURL:      "http://llm",
		BatchSize:    2,
		Concurrency:  2,
		SystemPrompt: "classify",
	}
}

func TestTransform_EndToEnd(t *testing.T) {
	t.Parallel()

	rows := make([]models.ReviewRow, 8)
	for i := range rows {
		rows[i] = models.ReviewRow{
			ItemID: i + 1,
			UserID: "u1",
			ShopID: "s1",
			Price:  10,
			Date:   "2025-01-01",
			Review: "fine",
		}
	}

	// Odd item ids positive, even negative.
	client := &stubChat{respond: func(ids []int) (string, error) {
		var verdicts [][2]int
		for _, id := range ids {
			verdicts = append(verdicts, [2]int{id, id % 2})
		}
		return sentimentJSON(verdicts...), nil
	}}

	tr := NewTransformer(client, transformerConfig())
	result := tr.Transform(context.Background(), rows, []string{"f1", "f2"}, []int{3, 5})

	if len(result.Enriched) != 8 {
		t.Fatalf("enriched=%d, want 8", len(result.Enriched))
	}
	for _, row := range result.Enriched {
		if row.Sentiment == nil {
			t.Fatalf("item %d has nil sentiment", row.ItemID)
		}
		if *row.Sentiment != (row.ItemID%2 == 1) {
			t.Fatalf("item %d sentiment=%v", row.ItemID, *row.Sentiment)
		}
	}

	if !reflect.DeepEqual(result.MovableFiles, []string{"f1", "f2"}) {
		t.Fatalf("movable=%v, want [f1 f2]", result.MovableFiles)
	}

	if len(result.ShopKPIs) != 1 {
		t.Fatalf("shop kpis=%d, want 1", len(result.ShopKPIs))
	}
	shop := result.ShopKPIs[0]
	if shop.PositiveReviews != 4 || shop.NegativeReviews != 4 {
		t.Fatalf("counts=(%d,%d), want (4,4)", shop.PositiveReviews, shop.NegativeReviews)
	}
	if shop.LikenessScore != 1.0 {
		t.Fatalf("likeness=%f, want 1.0", shop.LikenessScore)
	}
	if len(result.DateKPIs) != 1 || result.DateKPIs[0].AverageProfitPerDay != 10 {
		t.Fatalf("date kpis=%+v", result.DateKPIs)
	}
}

func TestTransform_DeterministicAcrossRuns(t *testing.T) {
	t.Parallel()

	rows := make([]models.ReviewRow, 6)
	for i := range rows {
		rows[i] = models.ReviewRow{
			ItemID: i + 1,
			UserID: []string{"u1", "u2", "u3"}[i%3],
			ShopID: []string{"sA", "sB"}[i%2],
			Price:  float64(i + 1),
			Date:   "2025-01-01",
			Review: "r",
		}
	}

	client := &stubChat{respond: echoPositive}
	tr := NewTransformer(client, transformerConfig())

	first := tr.Transform(context.Background(), rows, []string{"f"}, []int{6})
	second := tr.Transform(context.Background(), rows, []string{"f"}, []int{6})

	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	if string(a) != string(b) {
		t.Fatalf("same frame and deterministic stub should yield byte-identical output")
	}
}
