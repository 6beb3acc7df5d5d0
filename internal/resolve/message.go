package resolve

import (
	"encoding/json"
	"fmt"
)

// Message is the {role, content} shape shared by both wire protocols.
type Message struct {
	Role    string  `json:"role"`
	Content Content `json:"content"`
}

// Content accepts either a plain string or an Anthropic-style array of
// content blocks; for block arrays the first text block wins.
type Content struct {
	Text string
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func (c *Content) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		return json.Unmarshal(b, &c.Text)
	}
	var blocks []contentBlock
	if err := json.Unmarshal(b, &blocks); err != nil {
		return fmt.Errorf("message content must be a string or an array of content blocks: %w", err)
	}
	for _, blk := range blocks {
		if blk.Type == "text" {
			c.Text = blk.Text
			return nil
		}
	}
	return nil
}

func (c Content) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Text)
}

// LastUserPrompt returns the content of the most recent user message, or ""
// when there is none. An empty result is a valid outcome, not an error: the
// resolver will serve the configured default.
func LastUserPrompt(messages []Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == "user" {
			return messages[i].Content.Text
		}
	}
	return ""
}
