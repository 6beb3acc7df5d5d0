package provider

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var errNoFlush = errors.New("response writer does not support streaming")

func sseHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
}

// writeData emits one unnamed SSE frame: "data: <json>\n\n".
func writeData(bw *bufio.Writer, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(bw, "data: %s\n\n", b)
	return err
}

// writeEvent emits one named SSE frame: "event: <name>\ndata: <json>\n\n".
func writeEvent(bw *bufio.Writer, name string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(bw, "event: %s\ndata: %s\n\n", name, b)
	return err
}

func flushFrame(bw *bufio.Writer, flusher http.Flusher) error {
	if err := bw.Flush(); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}
