package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	brtypes "github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubConverseAPI struct {
	out   *bedrockruntime.ConverseOutput
	err   error
	input *bedrockruntime.ConverseInput
}

func (s *stubConverseAPI) Converse(_ context.Context, params *bedrockruntime.ConverseInput, _ ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error) {
	s.input = params
	return s.out, s.err
}

func textOutput(text string) *bedrockruntime.ConverseOutput {
	return &bedrockruntime.ConverseOutput{
		Output: &brtypes.ConverseOutputMemberMessage{Value: brtypes.Message{
			Role:    brtypes.ConversationRoleAssistant,
			Content: []brtypes.ContentBlock{&brtypes.ContentBlockMemberText{Value: text}},
		}},
		StopReason: brtypes.StopReasonEndTurn,
	}
}

func TestBedrockClient_Complete(t *testing.T) {
	out := textOutput("answer")
	out.Usage = &brtypes.TokenUsage{InputTokens: aws.Int32(12), OutputTokens: aws.Int32(4)}
	api := &stubConverseAPI{out: out}

	got, err := NewBedrockClient(api, "anthropic.claude-3-haiku", 300).Complete(context.Background(), "User: Hi")
	require.NoError(t, err)

	require.NotNil(t, api.input)
	assert.Equal(t, "anthropic.claude-3-haiku", aws.ToString(api.input.ModelId))
	require.Len(t, api.input.Messages, 1)
	assert.Equal(t, brtypes.ConversationRoleUser, api.input.Messages[0].Role)
	require.NotNil(t, api.input.InferenceConfig)
	assert.Equal(t, int32(300), aws.ToInt32(api.input.InferenceConfig.MaxTokens))

	assert.Equal(t, "answer", got.Text)
	// A field the provider left out counts as zero.
	assert.Equal(t, &TokenUsage{InputTokens: 12, OutputTokens: 4, TotalTokens: 0}, got.Usage)
	assert.Equal(t, "end_turn", got.StopReason)
}

func TestBedrockClient_NoUsageReport(t *testing.T) {
	got, err := NewBedrockClient(&stubConverseAPI{out: textOutput("x")}, "m", 0).Complete(context.Background(), "p")
	require.NoError(t, err)
	assert.Nil(t, got.Usage)
}

func TestBedrockClient_Failures(t *testing.T) {
	tests := []struct {
		name  string
		model string
		api   *stubConverseAPI
	}{
		{"missing model", "", &stubConverseAPI{out: textOutput("x")}},
		{"api error", "m", &stubConverseAPI{err: errors.New("throttled")}},
		{"nil output", "m", &stubConverseAPI{}},
		{"blank text", "m", &stubConverseAPI{out: textOutput("   ")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBedrockClient(tt.api, tt.model, 0).Complete(context.Background(), "p")
			assert.Error(t, err)
		})
	}
}

func TestNewBedrockClientPanicsOnNilAPI(t *testing.T) {
	assert.Panics(t, func() { NewBedrockClient(nil, "m", 0) })
}
