package prompt

import (
	"context"
	"fmt"
	"strings"

	"github.com/wolfman30/chatprompt/internal/llm"
)

// Summarizer condenses over-long history text through a secondary
// completion call.
type Summarizer struct {
	client llm.Client
	parser *ResponseParser
}

func NewSummarizer(client llm.Client, parser *ResponseParser) *Summarizer {
	if client == nil {
		panic("prompt: summarizer client cannot be nil")
	}
	if parser == nil {
		panic("prompt: summarizer parser cannot be nil")
	}
	return &Summarizer{client: client, parser: parser}
}

// Summarize returns text unchanged when it has at most maxWords words and
// makes no backend call. Otherwise it asks the backend for a summary, drops
// any reasoning block, and cuts the result to maxWords words. The returned
// usage is what the secondary call reported; callers own accounting for it.
func (s *Summarizer) Summarize(ctx context.Context, text string, maxWords int) (string, TokenUsage, error) {
	if wordCount(text) <= maxWords {
		return text, TokenUsage{}, nil
	}

	completion, err := s.client.Complete(ctx, summaryPrompt(text, maxWords))
	if err != nil {
		return "", TokenUsage{}, err
	}

	_, summary := s.parser.Parse(completion.Text)
	return truncateWords(summary, maxWords), usageFromReport(completion.Usage), nil
}

func summaryPrompt(text string, maxWords int) string {
	return fmt.Sprintf("Summarize this to %d words: %s", maxWords, text)
}

func wordCount(text string) int {
	return len(strings.Fields(text))
}

// truncateWords keeps the first maxWords whitespace-delimited words joined by
// single spaces.
func truncateWords(text string, maxWords int) string {
	words := strings.Fields(text)
	if len(words) > maxWords {
		words = words[:maxWords]
	}
	return strings.Join(words, " ")
}
