package resolve

import (
	"context"
	"fmt"

	"github.com/mockllm/mockllm/internal/config"
)

// Request carries everything a resolution strategy may inspect. It lives
// for the duration of one HTTP request.
type Request struct {
	// Prompt is the extracted latest user message.
	Prompt string
	// Headers maps lowercase header names to their first value.
	Headers map[string]string
	// Body is the parsed request body, provider schema untouched.
	Body map[string]any
}

// Resolver maps a request to the response text the mock will serve.
// Implementations must be deterministic: identical (prompt, headers, body,
// snapshot) input yields identical output.
type Resolver interface {
	Resolve(ctx context.Context, req Request) (string, error)
}

// TableResolver looks the normalized prompt up in the current snapshot and
// falls back to the configured unknown response. It never fails.
type TableResolver struct {
	store *config.Store
}

func NewTableResolver(store *config.Store) *TableResolver {
	return &TableResolver{store: store}
}

func (r *TableResolver) Resolve(_ context.Context, req Request) (string, error) {
	snap := r.store.Current()
	if text, ok := snap.Responses[config.NormalizePrompt(req.Prompt)]; ok {
		return text, nil
	}
	return snap.UnknownResponse, nil
}

// ResponseFunc is the contract a custom response module exposes: full
// access to headers and body, returns the reply verbatim.
type ResponseFunc func(headers map[string]string, body map[string]any) (string, error)

// FuncResolver adapts a ResponseFunc to the Resolver interface. It backs
// plugin-loaded modules and is handy for in-process custom logic in tests.
type FuncResolver struct {
	fn     ResponseFunc
	origin string
}

func NewFuncResolver(fn ResponseFunc) *FuncResolver {
	return &FuncResolver{fn: fn, origin: "func"}
}

func (r *FuncResolver) Resolve(_ context.Context, req Request) (string, error) {
	text, err := r.fn(req.Headers, req.Body)
	if err != nil {
		return "", fmt.Errorf("response module %s: %w", r.origin, err)
	}
	return text, nil
}
