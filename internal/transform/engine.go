package transform

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/spacesedan/reviewflow/internal/models"
)

const requestTimeout = 60 * time.Second

// Engine turns batches of review rows into one verdict per row by issuing
// bounded-concurrency LLM requests. A batch that fails (transport error,
// unparseable response, or a response whose shape does not line up with the
// batch) yields nil sentiments for all of its rows; the engine itself never
// fails.
type Engine struct {
	client       ChatClient
	systemPrompt string
	concurrency  int
	ledger       *Ledger
}

func NewEngine(client ChatClient, systemPrompt string, concurrency int, ledger *Ledger) *Engine {
	return &Engine{
		client:       client,
		systemPrompt: systemPrompt,
		concurrency:  concurrency,
		ledger:       ledger,
	}
}

// Analyze processes batches in concurrency groups. Output verdicts are
// concatenated in batch order and their item_ids are exactly the input
// item_ids. After each group the ledger advances by the group's row count,
// success or not: a decision has been made for every row in the group.
func (e *Engine) Analyze(ctx context.Context, batches [][]models.ReviewRow) []models.Verdict {
	total := 0
	for _, b := range batches {
		total += len(b)
	}
	verdicts := make([]models.Verdict, 0, total)

	for i := 0; i < len(batches); i += e.concurrency {
		end := i + e.concurrency
		if end > len(batches) {
			end = len(batches)
		}
		group := batches[i:end]

		contents := make([]string, len(group))
		errs := make([]error, len(group))

		var wg sync.WaitGroup
		for j, batch := range group {
			wg.Add(1)
			go func(j int, batch []models.ReviewRow) {
				defer wg.Done()

				reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
				defer cancel()

				schema := sentimentSchema[models.SentimentResponse](len(batch))
				contents[j], errs[j] = e.client.CreateSentiments(reqCtx, e.systemPrompt, RenderPrompt(batch), schema)
			}(j, batch)
		}
		wg.Wait()

		attempted := 0
		for j, batch := range group {
			attempted += len(batch)
			verdicts = append(verdicts, e.resolveBatch(i+j, batch, contents[j], errs[j])...)
		}
		e.ledger.Advance(attempted)

		slog.Info("[SentimentEngine] Concurrency group completed",
			slog.Int("first_batch", i),
			slog.Int("batches", len(group)),
			slog.Int("rows", attempted))
	}

	return verdicts
}

// resolveBatch maps one completed request to its verdicts. Every failure mode
// collapses to nil sentiments for the whole batch; alignment with the input
// is worth more than partial recovery of an unreliable response.
func (e *Engine) resolveBatch(batchIdx int, batch []models.ReviewRow, content string, err error) []models.Verdict {
	if err != nil {
		slog.Error("[SentimentEngine] Request failed",
			slog.Int("batch", batchIdx),
			slog.String("reason", "transport"),
			slog.String("error", err.Error()))
		return nullVerdicts(batch)
	}

	var resp models.SentimentResponse
	if err := json.Unmarshal([]byte(content), &resp); err != nil {
		slog.Error("[SentimentEngine] Response is not valid JSON",
			slog.Int("batch", batchIdx),
			slog.String("reason", "parse"),
			slog.String("error", err.Error()))
		return nullVerdicts(batch)
	}

	ordered, reason := alignVerdicts(batch, resp.Sentiments)
	if reason != "" {
		slog.Error("[SentimentEngine] Response shape does not match batch",
			slog.Int("batch", batchIdx),
			slog.String("reason", "shape"),
			slog.String("detail", reason))
		return nullVerdicts(batch)
	}
	return ordered
}

// alignVerdicts reorders the model's sentiments to the batch's input order,
// matching on item_id. It reports a non-empty reason when the response length
// is wrong, an item_id is unknown or duplicated, or a sentiment is absent.
func alignVerdicts(batch []models.ReviewRow, sentiments []models.ItemSentiment) ([]models.Verdict, string) {
	if len(sentiments) != len(batch) {
		return nil, "length mismatch"
	}

	byID := make(map[int]*bool, len(sentiments))
	for _, s := range sentiments {
		if _, dup := byID[s.ItemID]; dup {
			return nil, "duplicate item_id"
		}
		byID[s.ItemID] = s.Sentiment
	}

	ordered := make([]models.Verdict, 0, len(batch))
	for _, row := range batch {
		sentiment, ok := byID[row.ItemID]
		if !ok {
			return nil, "unknown item_id"
		}
		if sentiment == nil {
			return nil, "missing sentiment"
		}
		ordered = append(ordered, models.Verdict{ItemID: row.ItemID, Sentiment: sentiment})
	}
	return ordered, ""
}

func nullVerdicts(batch []models.ReviewRow) []models.Verdict {
	verdicts := make([]models.Verdict, 0, len(batch))
	for _, row := range batch {
		verdicts = append(verdicts, models.Verdict{ItemID: row.ItemID})
	}
	return verdicts
}
