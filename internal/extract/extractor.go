package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spacesedan/reviewflow/config"
	"github.com/spacesedan/reviewflow/internal/models"
	"github.com/spacesedan/reviewflow/internal/storage"
)

const emptyFolderPlaceholder = ".emptyFolderPlaceholder"

// Frame is the extracted input to the transform stage: all raw rows in
// ingestion order plus the per-file accounting the ledger needs.
type Frame struct {
	Rows       []models.ReviewRow
	FileNames  []string
	FileCounts []int
}

// Extractor pulls accumulated raw files out of the object store and
// concatenates them vertically into one frame.
type Extractor struct {
	store storage.ObjectStore
	cfg   *config.ETLConfig
}

func NewExtractor(store storage.ObjectStore, cfg *config.ETLConfig) *Extractor {
	return &Extractor{store: store, cfg: cfg}
}

// ListFiles returns raw-zone file names in creation order, with the empty
// folder sentinel filtered out.
func (e *Extractor) ListFiles(ctx context.Context) ([]string, error) {
	names, err := e.store.List(ctx, e.cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to list raw files: %w", err)
	}

	files := make([]string, 0, len(names))
	for _, name := range names {
		if name == emptyFolderPlaceholder {
			continue
		}
		files = append(files, name)
	}

	slog.Info("[Extractor] Found files in bucket", slog.Int("count", len(files)))
	return files, nil
}

// Extract downloads every listed file in order and builds the frame. A file
// that cannot be read or decoded is skipped and logged; the run proceeds with
// whatever extracted. item_ids are assigned densely across the whole frame.
func (e *Extractor) Extract(ctx context.Context) (*Frame, error) {
	files, err := e.ListFiles(ctx)
	if err != nil {
		return nil, err
	}

	frame := &Frame{}
	nextID := 1

	for _, file := range files {
		data, err := e.store.Get(ctx, e.cfg.Path+"/"+file)
		if err != nil {
			slog.Error("[Extractor] Failed to download file, skipping",
				slog.String("file", file),
				slog.String("error", err.Error()))
			continue
		}

		var raw []models.RawReview
		if err := json.Unmarshal(data, &raw); err != nil {
			slog.Error("[Extractor] Failed to decode file, skipping",
				slog.String("file", file),
				slog.String("error", err.Error()))
			continue
		}

		for _, r := range raw {
			frame.Rows = append(frame.Rows, models.ReviewRow{
				ItemID: nextID,
				UserID: r.UserID,
				ShopID: r.ShopID,
				Price:  r.Price,
				Date:   r.Date,
				Review: r.Review,
			})
			nextID++
		}
		frame.FileNames = append(frame.FileNames, file)
		frame.FileCounts = append(frame.FileCounts, len(raw))
	}

	slog.Info("[Extractor] Extraction process finished",
		slog.Int("files", len(frame.FileNames)),
		slog.Int("rows", len(frame.Rows)))
	return frame, nil
}
