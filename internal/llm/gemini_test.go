package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGeminiGenerator struct {
	resp  *genai.GenerateContentResponse
	err   error
	parts []genai.Part
}

func (s *stubGeminiGenerator) GenerateContent(_ context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	s.parts = parts
	return s.resp, s.err
}

func TestGeminiClient_Complete(t *testing.T) {
	gen := &stubGeminiGenerator{resp: &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content:      &genai.Content{Role: "model", Parts: []genai.Part{genai.Text("hello "), genai.Text("there")}},
			FinishReason: genai.FinishReasonStop,
		}},
		UsageMetadata: &genai.UsageMetadata{PromptTokenCount: 9, CandidatesTokenCount: 2, TotalTokenCount: 11},
	}}
	client := &GeminiClient{model: gen}

	got, err := client.Complete(context.Background(), "User: Hi")
	require.NoError(t, err)
	require.Len(t, gen.parts, 1)
	assert.Equal(t, genai.Text("User: Hi"), gen.parts[0])
	assert.Equal(t, "hello there", got.Text)
	assert.Equal(t, &TokenUsage{InputTokens: 9, OutputTokens: 2, TotalTokens: 11}, got.Usage)
	assert.NotEmpty(t, got.StopReason)
}

func TestGeminiClient_Failures(t *testing.T) {
	tests := []struct {
		name string
		gen  *stubGeminiGenerator
	}{
		{"api error", &stubGeminiGenerator{err: errors.New("quota")}},
		{"no candidates", &stubGeminiGenerator{resp: &genai.GenerateContentResponse{}}},
		{"empty content", &stubGeminiGenerator{resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := (&GeminiClient{model: tt.gen}).Complete(context.Background(), "p")
			assert.Error(t, err)
		})
	}
}

func TestNewGeminiClientRequiresKey(t *testing.T) {
	_, err := NewGeminiClient(context.Background(), " ", "", 0)
	assert.Error(t, err)
}

func TestGeminiClientCloseWithoutClient(t *testing.T) {
	assert.NoError(t, (&GeminiClient{}).Close())
}
