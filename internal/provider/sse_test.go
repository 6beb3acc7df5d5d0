package provider

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
)

type namedEvent struct {
	name string
	data string
}

// parseNamedEvents splits an SSE body into (event, data) pairs. Unnamed
// frames get an empty name.
func parseNamedEvents(t *testing.T, body string) []namedEvent {
	t.Helper()
	var events []namedEvent
	for _, raw := range strings.Split(strings.TrimSpace(body), "\n\n") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		var ev namedEvent
		for _, line := range strings.Split(raw, "\n") {
			switch {
			case strings.HasPrefix(line, "event: "):
				ev.name = strings.TrimPrefix(line, "event: ")
			case strings.HasPrefix(line, "data: "):
				ev.data = strings.TrimPrefix(line, "data: ")
			default:
				t.Fatalf("unexpected SSE line: %q", line)
			}
		}
		events = append(events, ev)
	}
	return events
}

// cancelingRecorder cancels a context after a fixed number of flushed
// frames, standing in for a client that disconnects mid-stream.
type cancelingRecorder struct {
	*httptest.ResponseRecorder
	flushes int
	after   int
	cancel  context.CancelFunc
}

func (c *cancelingRecorder) Flush() {
	c.flushes++
	if c.flushes == c.after {
		c.cancel()
	}
	c.ResponseRecorder.Flush()
}
