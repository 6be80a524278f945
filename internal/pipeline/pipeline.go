package pipeline

import (
	"context"
	"log/slog"

	"github.com/spacesedan/reviewflow/config"
	"github.com/spacesedan/reviewflow/internal/extract"
	"github.com/spacesedan/reviewflow/internal/load"
	"github.com/spacesedan/reviewflow/internal/transform"
)

// Pipeline wires one ETL run: extract, transform, load.
type Pipeline struct {
	extractor   *extract.Extractor
	transformer *transform.Transformer
	loader      *load.Loader
	cfg         *config.ETLConfig
}

func New(extractor *extract.Extractor, transformer *transform.Transformer, loader *load.Loader, cfg *config.ETLConfig) *Pipeline {
	return &Pipeline{
		extractor:   extractor,
		transformer: transformer,
		loader:      loader,
		cfg:         cfg,
	}
}

// Run executes the full pipeline once. Per-batch and load failures are
// absorbed downstream; only extraction-level errors surface here.
func (p *Pipeline) Run(ctx context.Context) error {
	slog.Info("[Pipeline] Starting ETL run",
		slog.String("bucket", p.cfg.BucketName),
		slog.String("path", p.cfg.Path))

	frame, err := p.extractor.Extract(ctx)
	if err != nil {
		return err
	}
	if len(frame.Rows) == 0 {
		slog.Info("[Pipeline] No data to process. Exiting pipeline.")
		return nil
	}
	slog.Info("[Pipeline] Extraction process finished")

	result := p.transformer.Transform(ctx, frame.Rows, frame.FileNames, frame.FileCounts)
	slog.Info("[Pipeline] Transformation process finished")

	p.loader.Load(ctx, result)
	slog.Info("[Pipeline] ETL pipeline completed successfully")
	return nil
}
