package prompt

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleHistory(n int) []HistoryItem {
	items := make([]HistoryItem, n)
	for i := range items {
		items[i] = HistoryItem{Prompt: fmt.Sprintf("q%d", i), Response: fmt.Sprintf("a%d", i)}
	}
	return items
}

func TestCompose_SystemPromptEmptyHistory(t *testing.T) {
	got := Compose("Be nice.", DefaultOptions(), nil, "Hi")
	assert.Equal(t, "[Instructions] \nBe nice.\nUser: Hi", got)
}

func TestCompose_NoSystemPrompt(t *testing.T) {
	assert.Equal(t, "User: Hi", Compose("", DefaultOptions(), nil, "Hi"))
}

func TestCompose_FullHistory(t *testing.T) {
	got := Compose("", DefaultOptions(), sampleHistory(2), "next")
	want := "[History] \n" +
		"User: q0\nAssistant: a0\n" +
		"User: q1\nAssistant: a1\n" +
		"User: next"
	assert.Equal(t, want, got)
}

func TestCompose_MemoryDisabledOmitsHistory(t *testing.T) {
	flags := []Options{
		{},
		{UseTruncation: true, TruncationMaxPreviousPrompts: 2},
		{UseSummarization: true},
		{UseRAG: true},
		{UseTruncation: true, UseSummarization: true, UseRAG: true, TruncationMaxPreviousPrompts: 5},
	}
	for i, opts := range flags {
		opts.UseMemory = false
		got := Compose("sys", opts, sampleHistory(3), "p")
		assert.NotContains(t, got, "[History]", "case %d", i)
		assert.NotContains(t, got, "Assistant: ", "case %d", i)
		assert.True(t, strings.HasSuffix(got, "User: p"), "case %d", i)
	}
}

func TestCompose_TruncationKeepsMostRecentInOrder(t *testing.T) {
	opts := DefaultOptions()
	opts.UseTruncation = true
	opts.TruncationMaxPreviousPrompts = 2

	got := Compose("", opts, sampleHistory(5), "now")
	want := "[History] \n" +
		"User: q3\nAssistant: a3\n" +
		"User: q4\nAssistant: a4\n" +
		"User: now"
	assert.Equal(t, want, got)
}

func TestCompose_TruncationWindowLargerThanHistory(t *testing.T) {
	opts := DefaultOptions()
	opts.UseTruncation = true
	opts.TruncationMaxPreviousPrompts = 10

	got := Compose("", opts, sampleHistory(3), "now")
	assert.Equal(t, 3, strings.Count(got, "Assistant: "))
	assert.Less(t, strings.Index(got, "q0"), strings.Index(got, "q2"))
}

func TestCompose_ZeroTruncationWindowRendersNothing(t *testing.T) {
	opts := DefaultOptions()
	opts.UseTruncation = true
	opts.TruncationMaxPreviousPrompts = 0

	assert.Equal(t, "User: now", Compose("", opts, sampleHistory(3), "now"))
}

func TestCompose_ModifiersWithoutTruncationRenderEverything(t *testing.T) {
	for _, opts := range []Options{
		{UseMemory: true, UseSummarization: true},
		{UseMemory: true, UseRAG: true},
	} {
		got := Compose("", opts, sampleHistory(4), "p")
		assert.Equal(t, 4, strings.Count(got, "Assistant: "))
		assert.True(t, strings.HasPrefix(got, "[History] \n"))
	}
}

func TestCompose_EmptyHistoryWithModifiers(t *testing.T) {
	opts := DefaultOptions()
	opts.UseTruncation = true
	assert.Equal(t, "User: p", Compose("", opts, nil, "p"))
}
