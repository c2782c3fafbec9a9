package prompt

import "github.com/wolfman30/chatprompt/internal/llm"

// TokenUsage aggregates token counts. On a Session it only grows.
type TokenUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

// Add folds one backend report into u. A nil report adds nothing.
func (u *TokenUsage) Add(report *llm.TokenUsage) {
	if report == nil {
		return
	}
	u.InputTokens += report.InputTokens
	u.OutputTokens += report.OutputTokens
	u.TotalTokens += report.TotalTokens
}

// Plus returns the field-wise sum of u and other.
func (u TokenUsage) Plus(other TokenUsage) TokenUsage {
	return TokenUsage{
		InputTokens:  u.InputTokens + other.InputTokens,
		OutputTokens: u.OutputTokens + other.OutputTokens,
		TotalTokens:  u.TotalTokens + other.TotalTokens,
	}
}

func usageFromReport(report *llm.TokenUsage) TokenUsage {
	var u TokenUsage
	u.Add(report)
	return u
}
