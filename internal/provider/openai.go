package provider

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/mockllm/mockllm/internal/lag"
	"github.com/mockllm/mockllm/internal/resolve"
)

// ChatCompletionRequest is the OpenAI-style request body.
type ChatCompletionRequest struct {
	Model    string            `json:"model"`
	Stream   bool              `json:"stream"`
	Messages []resolve.Message `json:"messages"`
}

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatChoice struct {
	Index        int         `json:"index"`
	Message      ChatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

type UsageBlock struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ChatCompletion is the non-streaming chat.completion response object.
type ChatCompletion struct {
	ID      string       `json:"id"`
	Object  string       `json:"object"`
	Created int64        `json:"created"`
	Model   string       `json:"model"`
	Choices []ChatChoice `json:"choices"`
	Usage   UsageBlock   `json:"usage"`
}

type ChatDelta struct {
	Role    string `json:"role,omitempty"`
	Content string `json:"content,omitempty"`
}

type ChunkChoice struct {
	Index        int       `json:"index"`
	Delta        ChatDelta `json:"delta"`
	FinishReason *string   `json:"finish_reason"`
}

// ChatCompletionChunk is one streamed chat.completion.chunk frame.
type ChatCompletionChunk struct {
	ID      string        `json:"id"`
	Object  string        `json:"object"`
	Created int64         `json:"created"`
	Model   string        `json:"model"`
	Choices []ChunkChoice `json:"choices"`
}

// NewChatCompletion encodes a resolved response as a full chat.completion
// object, echoing the requested model.
func NewChatCompletion(model, text string, u Usage) ChatCompletion {
	return ChatCompletion{
		ID:      newID("chatcmpl-"),
		Object:  "chat.completion",
		Created: time.Now().Unix(),
		Model:   model,
		Choices: []ChatChoice{{
			Message:      ChatMessage{Role: "assistant", Content: text},
			FinishReason: "stop",
		}},
		Usage: UsageBlock{
			PromptTokens:     u.PromptTokens,
			CompletionTokens: u.CompletionTokens,
			TotalTokens:      u.Total(),
		},
	}
}

func newChunk(id string, created int64, model string, choice ChunkChoice) ChatCompletionChunk {
	return ChatCompletionChunk{
		ID:      id,
		Object:  "chat.completion.chunk",
		Created: created,
		Model:   model,
		Choices: []ChunkChoice{choice},
	}
}

// StreamChatCompletion writes the response as OpenAI-style SSE: a role
// preamble chunk, one delta.content chunk per character paced by sim, a
// finish_reason chunk, then the [DONE] marker. Client cancellation closes
// the stream without the terminal frames.
func StreamChatCompletion(ctx context.Context, w http.ResponseWriter, model, text string, sim lag.Simulator) error {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return errNoFlush
	}
	sseHeaders(w)

	id := newID("chatcmpl-")
	created := time.Now().Unix()
	bw := bufio.NewWriter(w)

	first := newChunk(id, created, model, ChunkChoice{Delta: ChatDelta{Role: "assistant"}})
	if err := writeData(bw, first); err != nil {
		return err
	}
	if err := flushFrame(bw, flusher); err != nil {
		return err
	}

	for _, r := range text {
		if err := lag.Wait(ctx, sim.CharDelay()); err != nil {
			return err
		}
		chunk := newChunk(id, created, model, ChunkChoice{Delta: ChatDelta{Content: string(r)}})
		if err := writeData(bw, chunk); err != nil {
			return err
		}
		if err := flushFrame(bw, flusher); err != nil {
			return err
		}
	}

	stop := "stop"
	last := newChunk(id, created, model, ChunkChoice{FinishReason: &stop})
	if err := writeData(bw, last); err != nil {
		return err
	}
	if _, err := fmt.Fprint(bw, "data: [DONE]\n\n"); err != nil {
		return err
	}
	return flushFrame(bw, flusher)
}
