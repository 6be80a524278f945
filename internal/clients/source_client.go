package clients

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/spacesedan/reviewflow/internal/models"
)

const (
	MAX_RETRIES     = 5
	INITIAL_BACKOFF = 1 * time.Second
	MAX_BACKOFF     = 32 * time.Second
)

var (
	sourceInstance *SourceClient
	sourceOnce     sync.Once
)

// SourceClient fetches synthetic product records from the remote data source.
type SourceClient struct {
	Client *http.Client
	URL    string
	APIKey string
}

func GetSourceClient(url, apiKey string) *SourceClient {
	sourceOnce.Do(func() {
		sourceInstance = &SourceClient{
			Client: &http.Client{Timeout: 30 * time.Second},
			URL:    url,
			APIKey: apiKey,
		}
	})
	return sourceInstance
}

// FetchRecords pulls one page of records, retrying transient failures with
// exponential backoff.
func (s *SourceClient) FetchRecords() ([]models.SourceRecord, error) {
	var lastErr error
	backoff := INITIAL_BACKOFF

	for attempt := 1; attempt <= MAX_RETRIES; attempt++ {
		req, err := http.NewRequest(http.MethodGet, s.URL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("X-API-Key", s.APIKey)

		res, err := s.Client.Do(req)
		if err != nil {
			slog.Warn("[SourceClient] Request failed",
				slog.Int("attempt", attempt),
				slog.String("error", err.Error()))
			lastErr = err
		} else {
			records, done, err := decodeSourceResponse(res)
			if done {
				return records, err
			}
			lastErr = err
		}

		time.Sleep(backoff)
		backoff *= 2
		if backoff > MAX_BACKOFF {
			backoff = MAX_BACKOFF
		}
	}

	return nil, lastErr
}

func decodeSourceResponse(res *http.Response) ([]models.SourceRecord, bool, error) {
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusOK:
		body, err := io.ReadAll(res.Body)
		if err != nil {
			return nil, true, err
		}
		var records []models.SourceRecord
		if err := json.Unmarshal(body, &records); err != nil {
			slog.Error("[SourceClient] Failed to parse JSON response", slog.String("error", err.Error()))
			return nil, true, err
		}
		return records, true, nil
	case res.StatusCode >= 500, res.StatusCode == http.StatusTooManyRequests:
		slog.Warn("[SourceClient] Retryable status from source", slog.Int("status", res.StatusCode))
		return nil, false, errors.New("source returned " + res.Status)
	default:
		return nil, true, errors.New("source returned " + res.Status)
	}
}
