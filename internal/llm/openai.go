package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const defaultOllamaEndpoint = "http://127.0.0.1:11434"

type chatCompletionAPI interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIClient talks to any OpenAI-compatible chat completions endpoint:
// api.openai.com, Azure OpenAI deployments, or Ollama's /v1 surface.
type OpenAIClient struct {
	api       chatCompletionAPI
	model     string
	maxTokens int
}

func newOpenAIClient(api chatCompletionAPI, model string, maxTokens int) *OpenAIClient {
	if api == nil {
		panic("llm: openai chat client cannot be nil")
	}
	return &OpenAIClient{api: api, model: model, maxTokens: maxTokens}
}

// NewOpenAIClient builds a client for the OpenAI API. A non-empty baseURL
// points it at another OpenAI-compatible server.
func NewOpenAIClient(apiKey, baseURL, model string, maxTokens int) (*OpenAIClient, error) {
	if strings.TrimSpace(model) == "" {
		return nil, errors.New("llm: openai model id is required")
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL = strings.TrimSpace(baseURL); baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return newOpenAIClient(openai.NewClientWithConfig(cfg), model, maxTokens), nil
}

// NewAzureOpenAIClient builds a client for an Azure OpenAI resource. The
// model id is the deployment name.
func NewAzureOpenAIClient(apiKey, endpoint, deployment string, maxTokens int) (*OpenAIClient, error) {
	if strings.TrimSpace(endpoint) == "" {
		return nil, errors.New("llm: azure openai endpoint is required")
	}
	if strings.TrimSpace(deployment) == "" {
		return nil, errors.New("llm: azure openai deployment is required")
	}
	cfg := openai.DefaultAzureConfig(apiKey, endpoint)
	return newOpenAIClient(openai.NewClientWithConfig(cfg), deployment, maxTokens), nil
}

// NewOllamaClient builds a client for a local Ollama server through its
// OpenAI-compatible API.
func NewOllamaClient(endpoint, model string, maxTokens int) (*OpenAIClient, error) {
	if strings.TrimSpace(model) == "" {
		return nil, errors.New("llm: ollama model id is required")
	}
	endpoint = strings.TrimRight(strings.TrimSpace(endpoint), "/")
	if endpoint == "" {
		endpoint = defaultOllamaEndpoint
	}
	if !strings.HasSuffix(endpoint, "/v1") {
		endpoint += "/v1"
	}
	cfg := openai.DefaultConfig("ollama")
	cfg.BaseURL = endpoint
	return newOpenAIClient(openai.NewClientWithConfig(cfg), model, maxTokens), nil
}

func (c *OpenAIClient) Complete(ctx context.Context, prompt string) (Completion, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}
	if c.maxTokens > 0 {
		req.MaxTokens = c.maxTokens
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return Completion{}, fmt.Errorf("llm: openai completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Completion{}, errors.New("llm: openai returned no choices")
	}

	choice := resp.Choices[0]
	return Completion{
		Text:       choice.Message.Content,
		Usage:      usageOrNil(resp.Usage.PromptTokens, resp.Usage.CompletionTokens, resp.Usage.TotalTokens),
		StopReason: string(choice.FinishReason),
	}, nil
}
