package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const defaultAnthropicMaxTokens = 1024

type anthropicMessagesAPI interface {
	New(ctx context.Context, body anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

// AnthropicClient implements Client using the Anthropic Messages API.
type AnthropicClient struct {
	api       anthropicMessagesAPI
	model     string
	maxTokens int64
}

// NewAnthropicClient creates a client with an explicit API key. An empty key
// lets the SDK read ANTHROPIC_API_KEY.
func NewAnthropicClient(apiKey, baseURL, model string, maxTokens int) (*AnthropicClient, error) {
	if strings.TrimSpace(model) == "" {
		return nil, errors.New("llm: anthropic model id is required")
	}
	var opts []option.RequestOption
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	client := anthropic.NewClient(opts...)
	return newAnthropicClient(&client.Messages, model, maxTokens), nil
}

func newAnthropicClient(api anthropicMessagesAPI, model string, maxTokens int) *AnthropicClient {
	if maxTokens <= 0 {
		maxTokens = defaultAnthropicMaxTokens
	}
	return &AnthropicClient{api: api, model: model, maxTokens: int64(maxTokens)}
}

func (c *AnthropicClient) Complete(ctx context.Context, prompt string) (Completion, error) {
	msg, err := c.api.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: c.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return Completion{}, fmt.Errorf("llm: anthropic completion failed: %w", err)
	}
	if msg == nil {
		return Completion{}, errors.New("llm: anthropic response is nil")
	}

	var text strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	input := int(msg.Usage.InputTokens)
	output := int(msg.Usage.OutputTokens)
	return Completion{
		Text:       text.String(),
		Usage:      usageOrNil(input, output, input+output),
		StopReason: string(msg.StopReason),
	}, nil
}
