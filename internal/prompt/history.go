package prompt

// HistoryItem is one completed turn as remembered for future prompts.
type HistoryItem struct {
	Prompt   string `yaml:"prompt" json:"prompt"`
	Response string `yaml:"response" json:"response"`
}

// History is the append-only conversation record, oldest first.
type History struct {
	items []HistoryItem
}

// Append adds items after every existing entry, preserving their order.
func (h *History) Append(items ...HistoryItem) {
	h.items = append(h.items, items...)
}

func (h *History) Len() int {
	return len(h.items)
}

// Items returns a copy of the history.
func (h *History) Items() []HistoryItem {
	out := make([]HistoryItem, len(h.items))
	copy(out, h.items)
	return out
}

// lastN returns the n most recent items in chronological order. The result
// aliases the store and must not be modified.
func lastN(items []HistoryItem, n int) []HistoryItem {
	if n <= 0 {
		return nil
	}
	if n >= len(items) {
		return items
	}
	return items[len(items)-n:]
}
