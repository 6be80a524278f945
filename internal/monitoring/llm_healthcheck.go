package monitoring

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	healthcheckRetries = 3
	healthcheckBackoff = 2 * time.Second
)

// CheckLLMEndpoint probes the chat endpoint's model listing before the
// pipeline starts. An unreachable endpoint at startup is the one LLM failure
// that is allowed to be fatal; everything later degrades per batch.
func CheckLLMEndpoint(ctx context.Context, baseURL string) error {
	url := strings.TrimSuffix(baseURL, "/") + "/models"
	client := &http.Client{Timeout: 10 * time.Second}

	var lastErr error
	for attempt := 1; attempt <= healthcheckRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}

		res, err := client.Do(req)
		if err == nil {
			res.Body.Close()
			if res.StatusCode < 500 {
				slog.Info("[HealthCheck] LLM endpoint reachable", slog.String("url", url))
				return nil
			}
			lastErr = fmt.Errorf("LLM endpoint returned %s", res.Status)
		} else {
			lastErr = err
		}

		slog.Warn("[HealthCheck] LLM endpoint not reachable, retrying...",
			slog.Int("attempt", attempt),
			slog.String("error", lastErr.Error()))
		time.Sleep(healthcheckBackoff)
	}

	return fmt.Errorf("LLM endpoint unreachable after %d attempts: %w", healthcheckRetries, lastErr)
}
