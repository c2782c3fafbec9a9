package profile

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/chatprompt/internal/llm"
	"github.com/wolfman30/chatprompt/internal/prompt"
	"github.com/wolfman30/chatprompt/pkg/logging"
)

const sampleProfile = `
system_prompt: |
  You are a helpful assistant.
options:
  use_truncation: true
  truncation_max_previous_prompts: 1
history:
  - prompt: My name is Ana
    response: Hi Ana
  - prompt: I like tea
    response: Noted
`

func echoSession(t *testing.T, sent *[]string) *prompt.Session {
	t.Helper()
	client := llm.ClientFunc(func(_ context.Context, text string) (llm.Completion, error) {
		*sent = append(*sent, text)
		return llm.Completion{Text: "ok"}, nil
	})
	s, err := prompt.NewSession(client, prompt.WithLogger(logging.Discard()))
	require.NoError(t, err)
	return s
}

func TestParse(t *testing.T) {
	p, err := Parse([]byte(sampleProfile))
	require.NoError(t, err)

	assert.Equal(t, "You are a helpful assistant.\n", p.SystemPrompt)
	require.NotNil(t, p.Options)
	want := prompt.DefaultOptions()
	want.UseTruncation = true
	want.TruncationMaxPreviousPrompts = 1
	assert.Equal(t, want, *p.Options)
	assert.Equal(t, []prompt.HistoryItem{
		{Prompt: "My name is Ana", Response: "Hi Ana"},
		{Prompt: "I like tea", Response: "Noted"},
	}, p.History)
}

func TestParseWithoutOptionsLeavesThemUnset(t *testing.T) {
	p, err := Parse([]byte("system_prompt: be brief\n"))
	require.NoError(t, err)
	assert.Nil(t, p.Options)
	assert.Empty(t, p.History)
}

func TestParseRejectsInvalidOptions(t *testing.T) {
	_, err := Parse([]byte("options:\n  reasoning_tag: \"a b\"\n"))
	assert.ErrorIs(t, err, prompt.ErrConfiguration)

	_, err = Parse([]byte("options: [1, 2"))
	assert.Error(t, err)
}

func TestApply(t *testing.T) {
	p, err := Parse([]byte(sampleProfile))
	require.NoError(t, err)

	var sent []string
	s := echoSession(t, &sent)
	require.NoError(t, p.Apply(s))

	_, err = s.SubmitPrompt(context.Background(), "What do I like?")
	require.NoError(t, err)
	require.Len(t, sent, 1)
	assert.Equal(t,
		"[Instructions] \nYou are a helpful assistant.\n\n[History] \nUser: I like tea\nAssistant: Noted\nUser: What do I like?",
		sent[0])
}

func TestApplyInvalidOptionsLeavesSessionUntouched(t *testing.T) {
	var sent []string
	s := echoSession(t, &sent)
	bad := prompt.DefaultOptions()
	bad.SummarizeMaxWordCount = -1
	p := &Profile{SystemPrompt: "x", Options: &bad, History: []prompt.HistoryItem{{Prompt: "a", Response: "b"}}}

	assert.ErrorIs(t, p.Apply(s), prompt.ErrConfiguration)
	assert.Empty(t, s.SystemPrompt())
	assert.Empty(t, s.History())
}

func TestSaveAndLoad(t *testing.T) {
	var sent []string
	s := echoSession(t, &sent)
	s.SetSystemPrompt("rules")
	_, err := s.SubmitPrompt(context.Background(), "hello")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "session.yaml")
	require.NoError(t, Save(FromSession(s), path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "rules", loaded.SystemPrompt)
	require.NotNil(t, loaded.Options)
	assert.Equal(t, s.Options(), *loaded.Options)
	assert.Equal(t, []prompt.HistoryItem{{Prompt: "hello", Response: "ok"}}, loaded.History)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
