package provider

import "github.com/google/uuid"

// Usage carries the mock token estimates attached to a response. These are
// deterministic approximations from string length, not real tokenizer
// output.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
}

func (u Usage) Total() int {
	return u.PromptTokens + u.CompletionTokens
}

// ApproxTokens provides a rough token estimate (4 runes ~= 1 token).
func ApproxTokens(s string) int {
	if s == "" {
		return 0
	}
	r := len([]rune(s))
	return (r + 3) / 4
}

func newID(prefix string) string {
	return prefix + uuid.NewString()
}
