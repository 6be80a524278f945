package transform

import (
	"context"
	"log/slog"

	"github.com/spacesedan/reviewflow/config"
	"github.com/spacesedan/reviewflow/internal/models"
)

// Result is everything the transform stage hands to the loader.
type Result struct {
	Enriched     []models.EnrichedRow
	UserKPIs     []models.UserKPI
	ShopKPIs     []models.ShopKPI
	DateKPIs     []models.DateKPI
	MovableFiles []string
}

// Transformer runs the transform stage: batching, sentiment analysis, the
// verdict join, and KPI aggregation.
type Transformer struct {
	client ChatClient
	cfg    *config.ETLConfig
}

func NewTransformer(client ChatClient, cfg *config.ETLConfig) *Transformer {
	return &Transformer{client: client, cfg: cfg}
}

// Transform analyzes every extracted row and aggregates KPIs. fileNames and
// fileCounts describe where each row came from, in extraction order; they
// seed the ledger deciding which raw files may be archived.
func (t *Transformer) Transform(ctx context.Context, rows []models.ReviewRow, fileNames []string, fileCounts []int) *Result {
	batches := Batch(rows, t.cfg.BatchSize)
	ledger := NewLedger(fileNames, fileCounts)

	engine := NewEngine(t.client, t.cfg.SystemPrompt, t.cfg.Concurrency, ledger)
	verdicts := engine.Analyze(ctx, batches)

	enriched := JoinVerdicts(rows, verdicts)

	result := &Result{
		Enriched:     enriched,
		UserKPIs:     GenerateUserKPIs(enriched),
		ShopKPIs:     GenerateShopKPIs(enriched),
		DateKPIs:     GenerateDateKPIs(enriched),
		MovableFiles: ledger.Movable(),
	}

	slog.Info("[Transformer] Transformation process finished",
		slog.Int("rows", len(enriched)),
		slog.Int("movable_files", len(result.MovableFiles)))
	return result
}
