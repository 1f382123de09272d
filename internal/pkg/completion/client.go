package completion

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/workbridge/erp-backend-go/internal/config"
	"github.com/workbridge/erp-backend-go/internal/domain/assistant"
)

// Client produces free-form replies for chat messages the rule-based
// classifier could not handle. When no API key is configured the
// client is disabled and callers fall back to canned replies.
type Client interface {
	Enabled() bool
	Complete(ctx context.Context, systemPrompt string, history []assistant.ChatMessage, userMessage string) (string, error)
}

type openaiClient struct {
	client  openai.Client
	model   string
	enabled bool
}

// NewClient creates a completion client from assistant configuration.
func NewClient(cfg config.AssistantConfig) Client {
	if cfg.APIKey == "" {
		return &openaiClient{enabled: false}
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}

	return &openaiClient{
		client:  openai.NewClient(opts...),
		model:   model,
		enabled: true,
	}
}

func (c *openaiClient) Enabled() bool {
	return c.enabled
}

func (c *openaiClient) Complete(ctx context.Context, systemPrompt string, history []assistant.ChatMessage, userMessage string) (string, error) {
	if !c.enabled {
		return "", fmt.Errorf("completion client is disabled")
	}

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(history)+2)
	messages = append(messages, openai.SystemMessage(systemPrompt))
	for _, msg := range history {
		switch msg.Role {
		case assistant.RoleAssistant:
			messages = append(messages, openai.AssistantMessage(msg.Content))
		default:
			messages = append(messages, openai.UserMessage(msg.Content))
		}
	}
	messages = append(messages, openai.UserMessage(userMessage))

	params := openai.ChatCompletionNewParams{
		Model:               c.model,
		Messages:            messages,
		MaxCompletionTokens: openai.Int(1024),
		Temperature:         openai.Float(0.4),
	}

	start := time.Now()
	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	slog.DebugContext(ctx, "chat completion finished",
		"model", c.model,
		"duration_ms", time.Since(start).Milliseconds(),
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens,
		"finish_reason", resp.Choices[0].FinishReason)

	return resp.Choices[0].Message.Content, nil
}
