package load

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/spacesedan/reviewflow/config"
	"github.com/spacesedan/reviewflow/internal/models"
	"github.com/spacesedan/reviewflow/internal/storage"
	"github.com/spacesedan/reviewflow/internal/transform"
)

// KPIStore is the loader's view of the relational store. Writes are upserts
// on each table's primary key.
type KPIStore interface {
	UpsertUserKPIs(ctx context.Context, rows []models.UserKPI) error
	UpsertShopKPIs(ctx context.Context, rows []models.ShopKPI) error
	UpsertDateKPIs(ctx context.Context, rows []models.DateKPI) error
}

// Loader persists a transform result: KPI upserts in parallel, then the gold
// write, then the archive move. Failures are logged, never raised; un-moved
// files are simply reprocessed by the next run.
type Loader struct {
	store storage.ObjectStore
	kpis  KPIStore
	cfg   *config.ETLConfig
	now   func() time.Time
}

func NewLoader(store storage.ObjectStore, kpis KPIStore, cfg *config.ETLConfig) *Loader {
	return &Loader{store: store, kpis: kpis, cfg: cfg, now: time.Now}
}

func (l *Loader) Load(ctx context.Context, result *transform.Result) {
	l.upsertKPIs(ctx, result)

	if err := l.saveToGold(ctx, result.Enriched); err != nil {
		slog.Error("[Loader] Gold write failed, raw files stay in place",
			slog.String("error", err.Error()))
		return
	}

	l.moveFiles(ctx, result.MovableFiles)
	slog.Info("[Loader] Loading process finished")
}

// upsertKPIs writes the three tables concurrently; each is independent and
// idempotent.
func (l *Loader) upsertKPIs(ctx context.Context, result *transform.Result) {
	var wg sync.WaitGroup

	run := func(table string, fn func() error) {
		defer wg.Done()
		if err := fn(); err != nil {
			slog.Error("[Loader] KPI upsert failed",
				slog.String("table", table),
				slog.String("error", err.Error()))
		}
	}

	wg.Add(3)
	go run("user_kpis", func() error { return l.kpis.UpsertUserKPIs(ctx, result.UserKPIs) })
	go run("shop_kpis", func() error { return l.kpis.UpsertShopKPIs(ctx, result.ShopKPIs) })
	go run("date_kpis", func() error { return l.kpis.UpsertDateKPIs(ctx, result.DateKPIs) })
	wg.Wait()
}

func (l *Loader) saveToGold(ctx context.Context, enriched []models.EnrichedRow) error {
	data, err := json.Marshal(enriched)
	if err != nil {
		return fmt.Errorf("failed to marshal enriched frame: %w", err)
	}

	filename := fmt.Sprintf("%s/final_data_%s.json", l.cfg.GoldPath, l.now().Format("20060102_150405"))
	if err := l.store.Put(ctx, filename, data, "application/json"); err != nil {
		return err
	}

	slog.Info("[Loader] File uploaded to gold zone successfully",
		slog.String("file", filename),
		slog.Int("rows", len(enriched)))
	return nil
}

// moveFiles archives fully consumed raw files. A file that fails to move is
// logged and left behind; its rows will be reprocessed, which the upsert
// semantics absorb.
func (l *Loader) moveFiles(ctx context.Context, files []string) {
	moved := 0
	for _, file := range files {
		src := l.cfg.Path + "/" + file
		dst := l.cfg.DestPath + "/" + file
		if err := l.store.Move(ctx, src, dst); err != nil {
			slog.Error("[Loader] Failed to move file to processed folder",
				slog.String("file", file),
				slog.String("error", err.Error()))
			continue
		}
		moved++
	}

	slog.Info("[Loader] Moved processed files",
		slog.Int("moved", moved),
		slog.Int("total", len(files)))
}
