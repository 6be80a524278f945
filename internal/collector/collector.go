package collector

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/spacesedan/reviewflow/config"
	"github.com/spacesedan/reviewflow/internal/models"
	"github.com/spacesedan/reviewflow/internal/storage"
)

const (
	identityPoolSize = 10_000
	fetchInterval    = 300 * time.Millisecond
)

// RecordSource produces pages of raw product records.
type RecordSource interface {
	FetchRecords() ([]models.SourceRecord, error)
}

// DedupeCache remembers which records were already uploaded so a chatty
// source does not flood the raw zone with duplicates.
type DedupeCache interface {
	IsCollected(ctx context.Context, hash string) bool
	MarkCollected(ctx context.Context, hash string) error
}

// Collector polls the data source, augments records with synthetic user and
// shop identifiers, and periodically flushes the accumulated rows to the
// raw zone as one JSON blob.
type Collector struct {
	source  RecordSource
	cache   DedupeCache
	store   storage.ObjectStore
	cfg     *config.CollectorConfig
	userIDs []string
	shopIDs []string
	now     func() time.Time
}

func NewCollector(source RecordSource, cache DedupeCache, store storage.ObjectStore, cfg *config.CollectorConfig) *Collector {
	userIDs := make([]string, identityPoolSize)
	shopIDs := make([]string, identityPoolSize)
	for i := 0; i < identityPoolSize; i++ {
		userIDs[i] = uuid.NewString()
		shopIDs[i] = fmt.Sprintf("shop_%d", i)
	}

	return &Collector{
		source:  source,
		cache:   cache,
		store:   store,
		cfg:     cfg,
		userIDs: userIDs,
		shopIDs: shopIDs,
		now:     time.Now,
	}
}

// Run polls the source until the context is canceled, flushing after every
// FlushCount fetches. Remaining rows are flushed on shutdown.
func (c *Collector) Run(ctx context.Context) {
	ticker := time.NewTicker(fetchInterval)
	defer ticker.Stop()

	var pending []models.SourceRecord
	fetches := 0

	for {
		select {
		case <-ctx.Done():
			slog.Info("[Collector] Shutting down, flushing remaining records",
				slog.Int("pending", len(pending)))
			if len(pending) > 0 {
				c.flush(context.Background(), pending)
			}
			return
		case <-ticker.C:
			records, err := c.source.FetchRecords()
			if err != nil {
				slog.Error("[Collector] Fetch failed", slog.String("error", err.Error()))
				continue
			}
			pending = append(pending, c.dedupe(ctx, records)...)
			fetches++

			if fetches >= c.cfg.FlushCount {
				c.flush(ctx, pending)
				pending = nil
				fetches = 0
			}
		}
	}
}

// dedupe drops records whose content hash was uploaded within the cache TTL.
func (c *Collector) dedupe(ctx context.Context, records []models.SourceRecord) []models.SourceRecord {
	fresh := make([]models.SourceRecord, 0, len(records))
	for _, r := range records {
		hash := recordHash(r)
		if c.cache.IsCollected(ctx, hash) {
			continue
		}
		if err := c.cache.MarkCollected(ctx, hash); err != nil {
			slog.Warn("[Collector] Failed to mark record collected",
				slog.String("error", err.Error()))
		}
		fresh = append(fresh, r)
	}
	return fresh
}

func (c *Collector) flush(ctx context.Context, records []models.SourceRecord) {
	if len(records) == 0 {
		slog.Info("[Collector] Nothing to flush")
		return
	}

	rows := c.Augment(records)
	data, err := json.Marshal(rows)
	if err != nil {
		slog.Error("[Collector] Failed to marshal rows", slog.String("error", err.Error()))
		return
	}

	filename := fmt.Sprintf("%s/%s_%s.json", c.cfg.Path, c.now().Format(time.RFC3339), uuid.NewString())
	if err := c.store.Put(ctx, filename, data, "application/json"); err != nil {
		slog.Error("[Collector] Upload failed",
			slog.String("file", filename),
			slog.String("error", err.Error()))
		return
	}

	slog.Info("[Collector] Upload successful",
		slog.String("file", filename),
		slog.Int("rows", len(rows)))
}

// Augment assigns user and shop identifiers round-robin from the synthetic
// pools, keyed by row index.
func (c *Collector) Augment(records []models.SourceRecord) []models.RawReview {
	rows := make([]models.RawReview, 0, len(records))
	for i, r := range records {
		rows = append(rows, models.RawReview{
			UserID:      c.userIDs[i%len(c.userIDs)],
			ShopID:      c.shopIDs[i%len(c.shopIDs)],
			ProductName: r.ProductName,
			Category:    r.Category,
			Price:       r.Price,
			Date:        r.Date,
			Review:      r.Review,
		})
	}
	return rows
}

func recordHash(r models.SourceRecord) string {
	raw := fmt.Sprintf("%s:%s:%f:%s", r.ProductName, r.Date, r.Price, r.Review)
	hash := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(hash[:])
}
