package provider

import (
	"bufio"
	"context"
	"net/http"

	"github.com/mockllm/mockllm/internal/lag"
	"github.com/mockllm/mockllm/internal/resolve"
)

// MessagesRequest is the Anthropic-style request body.
type MessagesRequest struct {
	Model     string            `json:"model"`
	Stream    bool              `json:"stream"`
	MaxTokens int               `json:"max_tokens"`
	Messages  []resolve.Message `json:"messages"`
}

type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type MessageUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// MessageResponse is the non-streaming message object. It doubles as the
// embedded message of the message_start stream event, where stop_reason is
// still null and content is empty.
type MessageResponse struct {
	ID           string         `json:"id"`
	Type         string         `json:"type"`
	Role         string         `json:"role"`
	Content      []ContentBlock `json:"content"`
	Model        string         `json:"model"`
	StopReason   *string        `json:"stop_reason"`
	StopSequence *string        `json:"stop_sequence"`
	Usage        MessageUsage   `json:"usage"`
}

// NewMessageResponse encodes a resolved response as a full message object.
func NewMessageResponse(model, text string, u Usage) MessageResponse {
	endTurn := "end_turn"
	return MessageResponse{
		ID:         newID("msg_"),
		Type:       "message",
		Role:       "assistant",
		Content:    []ContentBlock{{Type: "text", Text: text}},
		Model:      model,
		StopReason: &endTurn,
		Usage: MessageUsage{
			InputTokens:  u.PromptTokens,
			OutputTokens: u.CompletionTokens,
		},
	}
}

type messageStartEvent struct {
	Type    string          `json:"type"`
	Message MessageResponse `json:"message"`
}

type contentBlockStartEvent struct {
	Type         string       `json:"type"`
	Index        int          `json:"index"`
	ContentBlock ContentBlock `json:"content_block"`
}

type textDelta struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type contentBlockDeltaEvent struct {
	Type  string    `json:"type"`
	Index int       `json:"index"`
	Delta textDelta `json:"delta"`
}

type contentBlockStopEvent struct {
	Type  string `json:"type"`
	Index int    `json:"index"`
}

type messageDeltaEvent struct {
	Type  string `json:"type"`
	Delta struct {
		StopReason   string  `json:"stop_reason"`
		StopSequence *string `json:"stop_sequence"`
	} `json:"delta"`
	Usage struct {
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

type messageStopEvent struct {
	Type string `json:"type"`
}

// StreamMessage writes the response as Anthropic-style named SSE events:
// message_start, content_block_start, one content_block_delta per character
// paced by sim, content_block_stop, message_delta, message_stop. Client
// cancellation closes the stream without the terminal events.
func StreamMessage(ctx context.Context, w http.ResponseWriter, model, text string, u Usage, sim lag.Simulator) error {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return errNoFlush
	}
	sseHeaders(w)

	bw := bufio.NewWriter(w)

	start := messageStartEvent{
		Type: "message_start",
		Message: MessageResponse{
			ID:      newID("msg_"),
			Type:    "message",
			Role:    "assistant",
			Content: []ContentBlock{},
			Model:   model,
			Usage:   MessageUsage{InputTokens: u.PromptTokens},
		},
	}
	if err := writeEvent(bw, "message_start", start); err != nil {
		return err
	}
	blockStart := contentBlockStartEvent{
		Type:         "content_block_start",
		ContentBlock: ContentBlock{Type: "text", Text: ""},
	}
	if err := writeEvent(bw, "content_block_start", blockStart); err != nil {
		return err
	}
	if err := flushFrame(bw, flusher); err != nil {
		return err
	}

	for _, r := range text {
		if err := lag.Wait(ctx, sim.CharDelay()); err != nil {
			return err
		}
		delta := contentBlockDeltaEvent{
			Type:  "content_block_delta",
			Delta: textDelta{Type: "text_delta", Text: string(r)},
		}
		if err := writeEvent(bw, "content_block_delta", delta); err != nil {
			return err
		}
		if err := flushFrame(bw, flusher); err != nil {
			return err
		}
	}

	if err := writeEvent(bw, "content_block_stop", contentBlockStopEvent{Type: "content_block_stop"}); err != nil {
		return err
	}
	md := messageDeltaEvent{Type: "message_delta"}
	md.Delta.StopReason = "end_turn"
	md.Usage.OutputTokens = u.CompletionTokens
	if err := writeEvent(bw, "message_delta", md); err != nil {
		return err
	}
	if err := writeEvent(bw, "message_stop", messageStopEvent{Type: "message_stop"}); err != nil {
		return err
	}
	return flushFrame(bw, flusher)
}
