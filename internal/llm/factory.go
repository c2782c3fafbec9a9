package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

// Provider identifies a completion backend variant.
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAzure     Provider = "azure"
	ProviderOllama    Provider = "ollama"
	ProviderBedrock   Provider = "bedrock"
	ProviderGemini    Provider = "gemini"
	ProviderAnthropic Provider = "anthropic"
)

// ErrUnknownProvider is returned when a provider name does not map to a backend.
var ErrUnknownProvider = errors.New("llm: unknown provider")

// ParseProvider normalizes a provider name from configuration.
func ParseProvider(name string) (Provider, error) {
	p := Provider(strings.ToLower(strings.TrimSpace(name)))
	switch p {
	case ProviderOpenAI, ProviderAzure, ProviderOllama, ProviderBedrock, ProviderGemini, ProviderAnthropic:
		return p, nil
	case "azureopenai", "azure-openai":
		return ProviderAzure, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownProvider, name)
	}
}

// Settings carries everything needed to construct one backend.
type Settings struct {
	Provider Provider
	// Endpoint is the base URL for openai-compatible, azure and ollama
	// backends. It is ignored by bedrock and gemini.
	Endpoint  string
	APIKey    string
	ModelID   string
	MaxTokens int

	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
}

// New constructs the backend selected by s.Provider.
func New(ctx context.Context, s Settings) (Client, error) {
	switch s.Provider {
	case ProviderOpenAI:
		return NewOpenAIClient(s.APIKey, s.Endpoint, s.ModelID, s.MaxTokens)
	case ProviderAzure:
		return NewAzureOpenAIClient(s.APIKey, s.Endpoint, s.ModelID, s.MaxTokens)
	case ProviderOllama:
		return NewOllamaClient(s.Endpoint, s.ModelID, s.MaxTokens)
	case ProviderBedrock:
		awsCfg, err := LoadAWSConfig(ctx, s.AWSRegion, s.AWSAccessKeyID, s.AWSSecretAccessKey)
		if err != nil {
			return nil, fmt.Errorf("llm: load aws config: %w", err)
		}
		return NewBedrockClient(bedrockruntime.NewFromConfig(awsCfg), s.ModelID, s.MaxTokens), nil
	case ProviderGemini:
		return NewGeminiClient(ctx, s.APIKey, s.ModelID, s.MaxTokens)
	case ProviderAnthropic:
		return NewAnthropicClient(s.APIKey, s.Endpoint, s.ModelID, s.MaxTokens)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, s.Provider)
	}
}

// NewWithFallback builds the primary backend and, when fallback is set, wraps
// it in a FallbackClient.
func NewWithFallback(ctx context.Context, primary Settings, fallback *Settings, logger *slog.Logger) (Client, error) {
	client, err := New(ctx, primary)
	if err != nil {
		return nil, err
	}
	if fallback == nil {
		return client, nil
	}
	secondary, err := New(ctx, *fallback)
	if err != nil {
		return nil, fmt.Errorf("llm: fallback backend: %w", err)
	}
	return NewFallbackClient(client, secondary, logger), nil
}
