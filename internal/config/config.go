package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/wolfman30/chatprompt/internal/llm"
	"github.com/wolfman30/chatprompt/internal/prompt"
)

// Config holds chatbot configuration
type Config struct {
	LogLevel    string
	MetricsAddr string

	LLMProvider        string
	LLMEndpoint        string
	LLMAPIKey          string
	LLMModelID         string
	LLMTimeout         time.Duration
	LLMMaxTokens       int
	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string

	// Fallback backend. Endpoint and key default to the primary's.
	LLMFallbackProvider string
	LLMFallbackEndpoint string
	LLMFallbackAPIKey   string
	LLMFallbackModelID  string

	SystemPrompt string
	ProfilePath  string

	PromptReasoningTag          string
	PromptSummarizeMaxWords     int
	PromptTruncationMaxPrevious int
	PromptUseMemory             bool
	PromptUseTruncation         bool
	PromptUseSummarization      bool
	PromptUseRAG                bool
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		MetricsAddr: getEnv("METRICS_ADDR", ""),

		LLMProvider:        strings.ToLower(strings.TrimSpace(getEnv("LLM_PROVIDER", string(llm.ProviderOllama)))),
		LLMEndpoint:        getEnv("LLM_ENDPOINT", ""),
		LLMAPIKey:          getEnv("LLM_API_KEY", ""),
		LLMModelID:         getEnv("LLM_MODEL_ID", "deepseek-r1:1.5b"),
		LLMTimeout:         getEnvAsDuration("LLM_TIMEOUT", 2*time.Minute),
		LLMMaxTokens:       getEnvAsInt("LLM_MAX_TOKENS", 1024),
		AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),

		LLMFallbackProvider: strings.ToLower(strings.TrimSpace(getEnv("LLM_FALLBACK_PROVIDER", ""))),
		LLMFallbackEndpoint: getEnv("LLM_FALLBACK_ENDPOINT", ""),
		LLMFallbackAPIKey:   getEnv("LLM_FALLBACK_API_KEY", ""),
		LLMFallbackModelID:  getEnv("LLM_FALLBACK_MODEL_ID", ""),

		SystemPrompt: getEnv("SYSTEM_PROMPT", ""),
		ProfilePath:  getEnv("PROMPT_PROFILE", ""),

		PromptReasoningTag:          getEnv("PROMPT_REASONING_TAG", prompt.DefaultReasoningTag),
		PromptSummarizeMaxWords:     getEnvAsInt("PROMPT_SUMMARIZE_MAX_WORDS", prompt.DefaultSummarizeMaxWordCount),
		PromptTruncationMaxPrevious: getEnvAsInt("PROMPT_TRUNCATION_MAX_PREVIOUS", prompt.DefaultTruncationMaxPreviousPrompts),
		PromptUseMemory:             getEnvAsBool("PROMPT_USE_MEMORY", true),
		PromptUseTruncation:         getEnvAsBool("PROMPT_USE_TRUNCATION", false),
		PromptUseSummarization:      getEnvAsBool("PROMPT_USE_SUMMARIZATION", false),
		PromptUseRAG:                getEnvAsBool("PROMPT_USE_RAG", false),
	}
}

// PrimaryLLM returns the settings for the main completion backend.
func (c *Config) PrimaryLLM() (llm.Settings, error) {
	provider, err := llm.ParseProvider(c.LLMProvider)
	if err != nil {
		return llm.Settings{}, fmt.Errorf("config: LLM_PROVIDER: %w", err)
	}
	return c.llmSettings(provider, c.LLMEndpoint, c.LLMAPIKey, c.LLMModelID), nil
}

// FallbackLLM returns nil when no fallback provider is configured.
func (c *Config) FallbackLLM() (*llm.Settings, error) {
	if c.LLMFallbackProvider == "" {
		return nil, nil
	}
	provider, err := llm.ParseProvider(c.LLMFallbackProvider)
	if err != nil {
		return nil, fmt.Errorf("config: LLM_FALLBACK_PROVIDER: %w", err)
	}
	endpoint := firstNonEmpty(c.LLMFallbackEndpoint, c.LLMEndpoint)
	apiKey := firstNonEmpty(c.LLMFallbackAPIKey, c.LLMAPIKey)
	model := firstNonEmpty(c.LLMFallbackModelID, c.LLMModelID)
	s := c.llmSettings(provider, endpoint, apiKey, model)
	return &s, nil
}

func (c *Config) llmSettings(provider llm.Provider, endpoint, apiKey, model string) llm.Settings {
	return llm.Settings{
		Provider:           provider,
		Endpoint:           endpoint,
		APIKey:             apiKey,
		ModelID:            model,
		MaxTokens:          c.LLMMaxTokens,
		AWSRegion:          c.AWSRegion,
		AWSAccessKeyID:     c.AWSAccessKeyID,
		AWSSecretAccessKey: c.AWSSecretAccessKey,
	}
}

// PromptOptions maps the PROMPT_* variables onto session options. The result
// is not validated here; the session rejects bad values.
func (c *Config) PromptOptions() prompt.Options {
	return prompt.Options{
		ReasoningTag:                 c.PromptReasoningTag,
		SummarizeMaxWordCount:        c.PromptSummarizeMaxWords,
		TruncationMaxPreviousPrompts: c.PromptTruncationMaxPrevious,
		UseMemory:                    c.PromptUseMemory,
		UseTruncation:                c.PromptUseTruncation,
		UseSummarization:             c.PromptUseSummarization,
		UseRAG:                       c.PromptUseRAG,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
