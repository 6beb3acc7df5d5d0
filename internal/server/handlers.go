package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mockllm/mockllm/internal/config"
	"github.com/mockllm/mockllm/internal/lag"
	"github.com/mockllm/mockllm/internal/logger"
	"github.com/mockllm/mockllm/internal/provider"
	"github.com/mockllm/mockllm/internal/resolve"
)

// Handler serves both provider endpoints against one resolver. All request
// state is per-call; the only shared resource is the config store, read
// once per request.
type Handler struct {
	store    *config.Store
	resolver resolve.Resolver
}

type errorEncoder func(message, errType string) gin.H

func openaiError(message, errType string) gin.H {
	return gin.H{"error": gin.H{"message": message, "type": errType}}
}

func anthropicError(message, errType string) gin.H {
	return gin.H{"type": "error", "error": gin.H{"type": errType, "message": message}}
}

// ChatCompletions handles POST /v1/chat/completions.
func (h *Handler) ChatCompletions(c *gin.Context) {
	var req provider.ChatCompletionRequest
	body, ok := h.decode(c, &req, openaiError)
	if !ok {
		return
	}
	if req.Messages == nil {
		c.JSON(http.StatusBadRequest, openaiError(`"messages" is required`, "invalid_request_error"))
		return
	}

	ctx := c.Request.Context()
	snap := h.store.Current()
	sim := lag.Simulator{Enabled: snap.LagEnabled, Factor: snap.LagFactor}

	text, err := h.resolver.Resolve(ctx, resolve.Request{
		Prompt:  resolve.LastUserPrompt(req.Messages),
		Headers: headerMap(c.Request.Header),
		Body:    body,
	})
	if err != nil {
		logger.Log.Errorw("[openai] resolve failed", "err", err)
		c.JSON(http.StatusInternalServerError, openaiError(err.Error(), "api_error"))
		return
	}

	u := provider.Usage{
		PromptTokens:     promptTokens(req.Messages),
		CompletionTokens: provider.ApproxTokens(text),
	}

	if req.Stream {
		if err := provider.StreamChatCompletion(ctx, c.Writer, req.Model, text, sim); err != nil {
			logger.Log.Infow("[openai] stream closed early", "err", err)
		}
		return
	}

	if err := lag.Wait(ctx, sim.ResponseDelay(text)); err != nil {
		// Client went away while we simulated latency.
		return
	}
	c.JSON(http.StatusOK, provider.NewChatCompletion(req.Model, text, u))
}

// Messages handles POST /v1/messages.
func (h *Handler) Messages(c *gin.Context) {
	var req provider.MessagesRequest
	body, ok := h.decode(c, &req, anthropicError)
	if !ok {
		return
	}
	if req.Messages == nil {
		c.JSON(http.StatusBadRequest, anthropicError(`"messages" is required`, "invalid_request_error"))
		return
	}

	ctx := c.Request.Context()
	snap := h.store.Current()
	sim := lag.Simulator{Enabled: snap.LagEnabled, Factor: snap.LagFactor}

	text, err := h.resolver.Resolve(ctx, resolve.Request{
		Prompt:  resolve.LastUserPrompt(req.Messages),
		Headers: headerMap(c.Request.Header),
		Body:    body,
	})
	if err != nil {
		logger.Log.Errorw("[anthropic] resolve failed", "err", err)
		c.JSON(http.StatusInternalServerError, anthropicError(err.Error(), "api_error"))
		return
	}

	u := provider.Usage{
		PromptTokens:     promptTokens(req.Messages),
		CompletionTokens: provider.ApproxTokens(text),
	}

	if req.Stream {
		if err := provider.StreamMessage(ctx, c.Writer, req.Model, text, u, sim); err != nil {
			logger.Log.Infow("[anthropic] stream closed early", "err", err)
		}
		return
	}

	if err := lag.Wait(ctx, sim.ResponseDelay(text)); err != nil {
		return
	}
	c.JSON(http.StatusOK, provider.NewMessageResponse(req.Model, text, u))
}

// Health reports liveness and the size of the loaded response table.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"responses": len(h.store.Current().Responses),
	})
}

// decode reads the body once, unmarshaling it both into the provider's
// typed request and into the opaque map handed to custom resolvers.
func (h *Handler) decode(c *gin.Context, req any, encodeErr errorEncoder) (map[string]any, bool) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, encodeErr("could not read request body", "invalid_request_error"))
		return nil, false
	}
	if err := json.Unmarshal(raw, req); err != nil {
		c.JSON(http.StatusBadRequest, encodeErr("invalid request body: "+err.Error(), "invalid_request_error"))
		return nil, false
	}
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		c.JSON(http.StatusBadRequest, encodeErr("request body must be a JSON object", "invalid_request_error"))
		return nil, false
	}
	return body, true
}

func headerMap(header http.Header) map[string]string {
	m := make(map[string]string, len(header))
	for name, values := range header {
		if len(values) > 0 {
			m[strings.ToLower(name)] = values[0]
		}
	}
	return m
}

func promptTokens(messages []resolve.Message) int {
	n := 0
	for _, m := range messages {
		n += provider.ApproxTokens(m.Content.Text)
	}
	return n
}
