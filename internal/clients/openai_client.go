package clients

import (
	"log/slog"
	"os"
	"sync"
	"time"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	llmRequestTimeout = 60 * time.Second // Timeout for individual chat-completion requests
)

var (
	llmClientInstance *LLMClient
	llmOnce           sync.Once
)

// LLMClient wraps the OpenAI-compatible chat endpoint. The underlying client
// is safe for concurrent use, which the sentiment engine relies on.
type LLMClient struct {
	Client openai.Client
}

func GetLLMClient(baseURL string) *LLMClient {
	llmOnce.Do(func() {
		// Local llama.cpp style endpoints ignore the key but the client
		// requires one.
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			apiKey = "key"
		}

		client := openai.NewClient(
			option.WithAPIKey(apiKey),
			option.WithBaseURL(baseURL),
			option.WithRequestTimeout(llmRequestTimeout),
			option.WithMaxRetries(0),
		)

		llmClientInstance = &LLMClient{Client: client}
		slog.Info("[LLMClient] Chat client initialized",
			slog.String("base_url", baseURL),
			slog.Duration("timeout", llmRequestTimeout))
	})
	return llmClientInstance
}
