package db

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spacesedan/reviewflow/internal/models"
)

var DB *pgxpool.Pool

func InitDB() error {
	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		dbUser, dbPassword, dbHost, dbPort, dbName)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return fmt.Errorf("unable to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("unable to ping database: %w", err)
	}
	DB = pool

	slog.Info("[DB] Connected to PostgreSQL successfully")
	return nil
}

func CloseDB() {
	if DB != nil {
		DB.Close()
	}
}

// KPIStore persists the three KPI tables with primary-key upserts, so
// re-running the loader on the same frame is idempotent.
type KPIStore struct {
	pool *pgxpool.Pool
}

func NewKPIStore() *KPIStore {
	if DB == nil {
		panic("[DB] Error: database pool is not initialized")
	}
	return &KPIStore{pool: DB}
}

const (
	upsertUserKPI = `INSERT INTO user_kpis
		(id, average_spent, positive_reviews, negative_reviews, likeness_score, normalized_likeness_score)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
		average_spent = EXCLUDED.average_spent,
		positive_reviews = EXCLUDED.positive_reviews,
		negative_reviews = EXCLUDED.negative_reviews,
		likeness_score = EXCLUDED.likeness_score,
		normalized_likeness_score = EXCLUDED.normalized_likeness_score`

	upsertShopKPI = `INSERT INTO shop_kpis
		(shop_id, average_profit, positive_reviews, negative_reviews, likeness_score, normalized_likeness_score)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (shop_id) DO UPDATE SET
		average_profit = EXCLUDED.average_profit,
		positive_reviews = EXCLUDED.positive_reviews,
		negative_reviews = EXCLUDED.negative_reviews,
		likeness_score = EXCLUDED.likeness_score,
		normalized_likeness_score = EXCLUDED.normalized_likeness_score`

	upsertDateKPI = `INSERT INTO date_kpis
		(date, average_profit_per_day)
		VALUES ($1, $2)
		ON CONFLICT (date) DO UPDATE SET
		average_profit_per_day = EXCLUDED.average_profit_per_day`
)

func (s *KPIStore) UpsertUserKPIs(ctx context.Context, rows []models.UserKPI) error {
	batch := &pgx.Batch{}
	for _, r := range rows {
		batch.Queue(upsertUserKPI, r.UserID, r.AverageSpent, r.PositiveReviews,
			r.NegativeReviews, r.LikenessScore, r.NormalizedLikenessScore)
	}
	return s.sendBatch(ctx, batch, "user_kpis", len(rows))
}

func (s *KPIStore) UpsertShopKPIs(ctx context.Context, rows []models.ShopKPI) error {
	batch := &pgx.Batch{}
	for _, r := range rows {
		batch.Queue(upsertShopKPI, r.ShopID, r.AverageProfit, r.PositiveReviews,
			r.NegativeReviews, r.LikenessScore, r.NormalizedLikenessScore)
	}
	return s.sendBatch(ctx, batch, "shop_kpis", len(rows))
}

func (s *KPIStore) UpsertDateKPIs(ctx context.Context, rows []models.DateKPI) error {
	batch := &pgx.Batch{}
	for _, r := range rows {
		batch.Queue(upsertDateKPI, r.Date, r.AverageProfitPerDay)
	}
	return s.sendBatch(ctx, batch, "date_kpis", len(rows))
}

func (s *KPIStore) sendBatch(ctx context.Context, batch *pgx.Batch, table string, count int) error {
	if count == 0 {
		slog.Info("[DB] Nothing to upsert", slog.String("table", table))
		return nil
	}

	results := s.pool.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < count; i++ {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("[DB] failed to upsert into %s: %w", table, err)
		}
	}

	slog.Info("[DB] Upserted KPI rows",
		slog.String("table", table),
		slog.Int("count", count))
	return nil
}
