// Package llm provides the completion backends a chat session sends composed
// prompts to. Each provider is a variant of Client chosen once at setup.
package llm

import "context"

// TokenUsage is the usage reported for a single completion call.
type TokenUsage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// Completion is the raw result of a backend call.
type Completion struct {
	Text string
	// Usage is nil when the provider did not report usage at all. Individual
	// fields the provider omitted are zero.
	Usage      *TokenUsage
	StopReason string
}

// Client sends one composed text to a model and returns its completion.
type Client interface {
	Complete(ctx context.Context, prompt string) (Completion, error)
}

// ClientFunc adapts a plain function to Client.
type ClientFunc func(ctx context.Context, prompt string) (Completion, error)

func (f ClientFunc) Complete(ctx context.Context, prompt string) (Completion, error) {
	return f(ctx, prompt)
}

func usageOrNil(input, output, total int) *TokenUsage {
	if input == 0 && output == 0 && total == 0 {
		return nil
	}
	return &TokenUsage{InputTokens: input, OutputTokens: output, TotalTokens: total}
}
