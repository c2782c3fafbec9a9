package prompt

import (
	"fmt"
	"regexp"
)

const (
	DefaultReasoningTag                 = "think"
	DefaultSummarizeMaxWordCount        = 50
	DefaultTruncationMaxPreviousPrompts = 5
)

// reasoningTagPattern limits tags to XML-style names so the delimiter can
// never change the meaning of the match pattern.
var reasoningTagPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.-]*$`)

// Options selects the memory strategy for a session. Sessions copy Options on
// SetOptions, so a value is never observed half-updated by a turn.
type Options struct {
	ReasoningTag                 string `yaml:"reasoning_tag" json:"reasoning_tag"`
	SummarizeMaxWordCount        int    `yaml:"summarize_max_word_count" json:"summarize_max_word_count"`
	TruncationMaxPreviousPrompts int    `yaml:"truncation_max_previous_prompts" json:"truncation_max_previous_prompts"`
	UseMemory                    bool   `yaml:"use_memory" json:"use_memory"`
	UseTruncation                bool   `yaml:"use_truncation" json:"use_truncation"`
	UseSummarization             bool   `yaml:"use_summarization" json:"use_summarization"`
	// UseRAG is reserved for a retrieval strategy. It currently only routes
	// rendering through the with-options path; nothing is retrieved.
	UseRAG bool `yaml:"use_rag" json:"use_rag"`
}

// DefaultOptions returns memory enabled with every modifier off.
func DefaultOptions() Options {
	return Options{
		ReasoningTag:                 DefaultReasoningTag,
		SummarizeMaxWordCount:        DefaultSummarizeMaxWordCount,
		TruncationMaxPreviousPrompts: DefaultTruncationMaxPreviousPrompts,
		UseMemory:                    true,
	}
}

// Validate rejects options that would misbehave at turn time.
func (o Options) Validate() error {
	if !reasoningTagPattern.MatchString(o.ReasoningTag) {
		return fmt.Errorf("%w: reasoning tag %q must be an XML-style name", ErrConfiguration, o.ReasoningTag)
	}
	if o.SummarizeMaxWordCount <= 0 {
		return fmt.Errorf("%w: summarize max word count must be positive, got %d", ErrConfiguration, o.SummarizeMaxWordCount)
	}
	if o.TruncationMaxPreviousPrompts < 0 {
		return fmt.Errorf("%w: truncation max previous prompts must not be negative, got %d", ErrConfiguration, o.TruncationMaxPreviousPrompts)
	}
	return nil
}

// usesPlainHistory reports whether memory renders the full history with no
// modifier applied.
func (o Options) usesPlainHistory() bool {
	return !o.UseTruncation && !o.UseSummarization && !o.UseRAG
}
