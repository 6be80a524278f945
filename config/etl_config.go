package config

import (
	"errors"
	"os"
	"strconv"
)

const (
	DefaultBatchSize   = 25
	DefaultConcurrency = 4

	defaultSystemPrompt = "You are a sentiment analysis engine for e-commerce product reviews. " +
		"For every item in the input classify the review as positive (true) or negative (false) " +
		"and return a JSON object matching the provided schema. Echo each item_id exactly as given."
)

// ETLConfig carries everything a single pipeline run needs. Missing required
// settings are fatal at startup; nothing here is re-read mid-run.
type ETLConfig struct {
	BucketName   string // object store bucket
	Path         string // raw-zone prefix
	DestPath     string // archive prefix for processed files
	GoldPath     string // gold-zone prefix
	Model        string
	BatchSize    int
	Concurrency  int
	SystemPrompt string
	BaseURL      string // LLM endpoint
}

// CollectorConfig configures the raw-data collector binary.
type CollectorConfig struct {
	BucketName string
	Path       string // raw-zone prefix uploads land under
	SourceURL  string
	APIKey     string
	FlushCount int // fetches accumulated per uploaded blob
}

func LoadETLConfig() (*ETLConfig, error) {
	cfg := &ETLConfig{
		BucketName:   os.Getenv("BUCKET_NAME"),
		Path:         envOrDefault("RAW_PATH", "bronze/new"),
		DestPath:     envOrDefault("DEST_PATH", "bronze/processed"),
		GoldPath:     envOrDefault("GOLD_PATH", "gold"),
		Model:        os.Getenv("LLM_MODEL"),
		BatchSize:    envInt("BATCH_SIZE", DefaultBatchSize),
		Concurrency:  envInt("CONCURRENCY", DefaultConcurrency),
		SystemPrompt: envOrDefault("SYSTEM_PROMPT", defaultSystemPrompt),
		BaseURL:      os.Getenv("LLM_BASE_URL"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *ETLConfig) Validate() error {
	if c.BucketName == "" {
		return errors.New("missing BUCKET_NAME")
	}
	if c.Model == "" {
		return errors.New("missing LLM_MODEL")
	}
	if c.BaseURL == "" {
		return errors.New("missing LLM_BASE_URL")
	}
	if c.BatchSize <= 0 {
		return errors.New("BATCH_SIZE must be > 0")
	}
	if c.Concurrency <= 0 {
		return errors.New("CONCURRENCY must be > 0")
	}
	return nil
}

func LoadCollectorConfig() (*CollectorConfig, error) {
	cfg := &CollectorConfig{
		BucketName: os.Getenv("BUCKET_NAME"),
		Path:       envOrDefault("RAW_PATH", "bronze/new"),
		SourceURL:  os.Getenv("SOURCE_URL"),
		APIKey:     os.Getenv("SOURCE_API_KEY"),
		FlushCount: envInt("COLLECTOR_FLUSH_COUNT", 10),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *CollectorConfig) Validate() error {
	if c.BucketName == "" {
		return errors.New("missing BUCKET_NAME")
	}
	if c.SourceURL == "" {
		return errors.New("missing SOURCE_URL")
	}
	if c.FlushCount <= 0 {
		return errors.New("COLLECTOR_FLUSH_COUNT must be > 0")
	}
	return nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
