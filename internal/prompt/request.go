package prompt

import "time"

// PromptRequest is a user prompt stamped at creation.
type PromptRequest struct {
	Prompt              string    `json:"prompt"`
	RequestTimestampUTC time.Time `json:"request_timestamp_utc"`
}

// NewPromptRequest stamps prompt with the current UTC time.
func NewPromptRequest(prompt string) PromptRequest {
	return PromptRequest{Prompt: prompt, RequestTimestampUTC: time.Now().UTC()}
}

// PromptResponse is the per-turn snapshot returned to callers. Reasoning is
// nil when the completion carried no reasoning block.
type PromptResponse struct {
	Prompt               string     `json:"prompt"`
	Reasoning            *string    `json:"reasoning,omitempty"`
	Response             string     `json:"response"`
	RequestTimestampUTC  time.Time  `json:"request_timestamp_utc"`
	ResponseTimestampUTC time.Time  `json:"response_timestamp_utc"`
	TokenUsage           TokenUsage `json:"token_usage"`
}
