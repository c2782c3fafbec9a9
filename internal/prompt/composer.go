package prompt

import "strings"

const (
	userPrefix         = "User: "
	assistantPrefix    = "Assistant: "
	historyHeader      = "[History] \n"
	instructionsHeader = "[Instructions] \n"
)

// Compose builds the text sent to the completion backend. An empty
// systemPrompt means no instructions block. The result ends with the new
// user line and no assistant line.
func Compose(systemPrompt string, opts Options, history []HistoryItem, prompt string) string {
	var sb strings.Builder

	if systemPrompt != "" {
		sb.WriteString(instructionsHeader)
		sb.WriteString(systemPrompt)
		sb.WriteString("\n")
	}

	if opts.UseMemory {
		sb.WriteString(renderHistory(memoryWindow(opts, history)))
	}

	sb.WriteString(userPrefix)
	sb.WriteString(prompt)
	return sb.String()
}

// memoryWindow picks the history entries memory renders for opts.
func memoryWindow(opts Options, history []HistoryItem) []HistoryItem {
	if opts.usesPlainHistory() {
		return history
	}
	if opts.UseTruncation {
		return lastN(history, opts.TruncationMaxPreviousPrompts)
	}
	return history
}

func renderHistory(items []HistoryItem) string {
	if len(items) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(historyHeader)
	for _, item := range items {
		sb.WriteString(userPrefix)
		sb.WriteString(item.Prompt)
		sb.WriteString("\n")
		sb.WriteString(assistantPrefix)
		sb.WriteString(item.Response)
		sb.WriteString("\n")
	}
	return sb.String()
}
