package transform

import (
	"context"
	"errors"

	openai "github.com/openai/openai-go"

	"github.com/spacesedan/reviewflow/internal/clients"
)

// ChatClient is the engine's view of the LLM endpoint. Implementations must
// be safe for concurrent calls.
type ChatClient interface {
	CreateSentiments(ctx context.Context, systemPrompt, userPrompt string, schema map[string]interface{}) (string, error)
}

// OpenAIChatClient issues chat-completion requests with a strict JSON-schema
// response format against an OpenAI-compatible endpoint.
type OpenAIChatClient struct {
	client openai.Client
	model  string
}

func NewOpenAIChatClient(llm *clients.LLMClient, model string) *OpenAIChatClient {
	return &OpenAIChatClient{client: llm.Client, model: model}
}

func (c *OpenAIChatClient) CreateSentiments(ctx context.Context, systemPrompt, userPrompt string, schema map[string]interface{}) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		},
		Model: openai.ChatModel(c.model),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:        "sentiment_analysis_response",
					Description: openai.String("Response containing sentiment analysis for product reviews"),
					Schema:      schema,
					Strict:      openai.Bool(true),
				},
			},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("completion response carried no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
