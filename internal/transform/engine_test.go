package transform

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/spacesedan/reviewflow/internal/models"
)

// stubChat answers each request by inspecting the rendered prompt; respond
// receives the item_ids present in the batch, in order.
type stubChat struct {
	respond func(itemIDs []int) (string, error)
}

func (s *stubChat) CreateSentiments(_ context.Context, _ string, userPrompt string, _ map[string]interface{}) (string, error) {
	return s.respond(promptItemIDs(userPrompt))
}

func promptItemIDs(prompt string) []int {
	var ids []int
	for _, line := range strings.Split(prompt, "\n") {
		var id int
		if _, err := fmt.Sscanf(strings.TrimSpace(line), "id : %d ,", &id); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}

func sentimentJSON(verdicts ...[2]int) string {
	resp := models.SentimentResponse{}
	for _, v := range verdicts {
		positive := v[1] == 1
		resp.Sentiments = append(resp.Sentiments, models.ItemSentiment{ItemID: v[0], Sentiment: &positive})
	}
	data, _ := json.Marshal(resp)
	return string(data)
}

func echoPositive(itemIDs []int) (string, error) {
	var verdicts [][2]int
	for _, id := range itemIDs {
		verdicts = append(verdicts, [2]int{id, 1})
	}
	return sentimentJSON(verdicts...), nil
}

func newTestEngine(respond func([]int) (string, error), concurrency int, ledger *Ledger) *Engine {
	if ledger == nil {
		ledger = NewLedger(nil, nil)
	}
	return NewEngine(&stubChat{respond: respond}, "classify the reviews", concurrency, ledger)
}

func TestAnalyze_HappyPath(t *testing.T) {
	t.Parallel()

	rows := []models.ReviewRow{
		{ItemID: 1, Review: "great"},
		{ItemID: 2, Review: "awful"},
	}
	engine := newTestEngine(func(ids []int) (string, error) {
		return sentimentJSON([2]int{1, 1}, [2]int{2, 0}), nil
	}, 4, nil)

	verdicts := engine.Analyze(context.Background(), Batch(rows, 2))
	assertVerdicts(t, verdicts, map[int]*bool{1: boolPtr(true), 2: boolPtr(false)}, []int{1, 2})
}

func TestAnalyze_ReorderedResponse(t *testing.T) {
	t.Parallel()

	rows := []models.ReviewRow{
		{ItemID: 1, Review: "great"},
		{ItemID: 2, Review: "awful"},
	}
	engine := newTestEngine(func(ids []int) (string, error) {
		return sentimentJSON([2]int{2, 0}, [2]int{1, 1}), nil
	}, 4, nil)

	verdicts := engine.Analyze(context.Background(), Batch(rows, 2))
	assertVerdicts(t, verdicts, map[int]*bool{1: boolPtr(true), 2: boolPtr(false)}, []int{1, 2})
}

func TestAnalyze_ShortResponseFailsBatch(t *testing.T) {
	t.Parallel()

	rows := []models.ReviewRow{
		{ItemID: 1, Review: "great"},
		{ItemID: 2, Review: "awful"},
	}
	engine := newTestEngine(func(ids []int) (string, error) {
		return sentimentJSON([2]int{1, 1}), nil
	}, 4, nil)

	verdicts := engine.Analyze(context.Background(), Batch(rows, 2))
	assertVerdicts(t, verdicts, map[int]*bool{1: nil, 2: nil}, []int{1, 2})
}

func TestAnalyze_TransportFailureIsIsolated(t *testing.T) {
	t.Parallel()

	rows := makeRows(6)
	engine := newTestEngine(func(ids []int) (string, error) {
		if ids[0] == 3 {
			return "", errors.New("request timed out")
		}
		return echoPositive(ids)
	}, 3, nil)

	verdicts := engine.Analyze(context.Background(), Batch(rows, 2))
	assertVerdicts(t, verdicts, map[int]*bool{
		1: boolPtr(true), 2: boolPtr(true),
		3: nil, 4: nil,
		5: boolPtr(true), 6: boolPtr(true),
	}, []int{1, 2, 3, 4, 5, 6})
}

func TestAnalyze_MalformedJSON(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(func(ids []int) (string, error) {
		return "```json not even close", nil
	}, 4, nil)

	verdicts := engine.Analyze(context.Background(), Batch(makeRows(2), 2))
	assertVerdicts(t, verdicts, map[int]*bool{1: nil, 2: nil}, []int{1, 2})
}

func TestAnalyze_DuplicateItemIDFailsBatch(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(func(ids []int) (string, error) {
		return sentimentJSON([2]int{1, 1}, [2]int{1, 0}), nil
	}, 4, nil)

	verdicts := engine.Analyze(context.Background(), Batch(makeRows(2), 2))
	assertVerdicts(t, verdicts, map[int]*bool{1: nil, 2: nil}, []int{1, 2})
}

func TestAnalyze_UnknownItemIDFailsBatch(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(func(ids []int) (string, error) {
		return sentimentJSON([2]int{1, 1}, [2]int{99, 0}), nil
	}, 4, nil)

	verdicts := engine.Analyze(context.Background(), Batch(makeRows(2), 2))
	assertVerdicts(t, verdicts, map[int]*bool{1: nil, 2: nil}, []int{1, 2})
}

func TestAnalyze_MissingSentimentFailsBatch(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(func(ids []int) (string, error) {
		return `{"sentiments":[{"item_id":1,"sentiment":true},{"item_id":2,"sentiment":null}]}`, nil
	}, 4, nil)

	verdicts := engine.Analyze(context.Background(), Batch(makeRows(2), 2))
	assertVerdicts(t, verdicts, map[int]*bool{1: nil, 2: nil}, []int{1, 2})
}

func TestAnalyze_ShortTailBatch(t *testing.T) {
	t.Parallel()

	rows := makeRows(5)
	engine := newTestEngine(echoPositive, 2, nil)

	verdicts := engine.Analyze(context.Background(), Batch(rows, 2))
	if len(verdicts) != 5 {
		t.Fatalf("verdicts=%d, want 5", len(verdicts))
	}
	for i, v := range verdicts {
		if v.ItemID != i+1 {
			t.Fatalf("verdict %d has ItemID=%d, want %d", i, v.ItemID, i+1)
		}
		if v.Sentiment == nil || !*v.Sentiment {
			t.Fatalf("verdict %d should be positive", i)
		}
	}
}

func TestAnalyze_EmptyInput(t *testing.T) {
	t.Parallel()

	calls := 0
	engine := newTestEngine(func(ids []int) (string, error) {
		calls++
		return "", nil
	}, 4, nil)

	verdicts := engine.Analyze(context.Background(), nil)
	if len(verdicts) != 0 {
		t.Fatalf("verdicts=%d, want 0", len(verdicts))
	}
	if calls != 0 {
		t.Fatalf("no requests expected for empty input, got %d", calls)
	}
}

func TestAnalyze_AdvancesLedgerPerGroup(t *testing.T) {
	t.Parallel()

	ledger := NewLedger([]string{"f1", "f2"}, []int{3, 5})
	engine := newTestEngine(func(ids []int) (string, error) {
		if ids[0] == 5 {
			return "", errors.New("boom")
		}
		return echoPositive(ids)
	}, 2, ledger)

	verdicts := engine.Analyze(context.Background(), Batch(makeRows(8), 2))
	if len(verdicts) != 8 {
		t.Fatalf("verdicts=%d, want 8", len(verdicts))
	}
	// Failed batches still count as attempted.
	if got := ledger.Remaining(); got != 0 {
		t.Fatalf("remaining=%d, want 0", got)
	}
	if got := ledger.Movable(); len(got) != 2 {
		t.Fatalf("movable=%v, want both files", got)
	}
}

func assertVerdicts(t *testing.T, got []models.Verdict, want map[int]*bool, order []int) {
	t.Helper()

	if len(got) != len(order) {
		t.Fatalf("verdicts=%d, want %d", len(got), len(order))
	}
	for i, v := range got {
		if v.ItemID != order[i] {
			t.Fatalf("verdict %d has ItemID=%d, want %d", i, v.ItemID, order[i])
		}
		expected := want[v.ItemID]
		switch {
		case expected == nil && v.Sentiment != nil:
			t.Fatalf("item %d: sentiment=%v, want nil", v.ItemID, *v.Sentiment)
		case expected != nil && v.Sentiment == nil:
			t.Fatalf("item %d: sentiment=nil, want %v", v.ItemID, *expected)
		case expected != nil && *expected != *v.Sentiment:
			t.Fatalf("item %d: sentiment=%v, want %v", v.ItemID, *v.Sentiment, *expected)
		}
	}
}

func boolPtr(b bool) *bool { return &b }
