package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goasutlor/flexideploy/logstream"
)

// stream drains the broadcaster on a fixed poll interval and forwards the
// events as server-sent events. The stream never terminates on its own; it
// ends when the client goes away.
func (s *Server) stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	flusher.Flush()

	ticker := time.NewTicker(logstream.PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			if writeEvents(w, s.Logs.DrainAll()) {
				flusher.Flush()
			}
		}
	}
}

// writeEvents encodes drained events as SSE frames: consecutive log lines
// are joined into one append frame, progress and terminal events get their
// own typed frames. Returns whether anything was written.
func writeEvents(w io.Writer, events []logstream.Event) bool {
	wrote := false
	var lines []string

	flushLines := func() {
		if len(lines) == 0 {
			return
		}
		writeFrame(w, map[string]interface{}{
			"logs": strings.Join(lines, "\n"),
			"type": "append",
		})
		lines = nil
		wrote = true
	}

	for _, e := range events {
		switch e := e.(type) {
		case logstream.Line:
			lines = append(lines, e.String())
		case logstream.Progress:
			flushLines()
			writeFrame(w, map[string]interface{}{
				"type":    "progress",
				"stage":   e.Stage,
				"percent": e.Percent,
			})
			wrote = true
		case logstream.Terminal:
			flushLines()
			kind := "complete"
			if !e.Succeeded {
				kind = "error"
			}
			writeFrame(w, map[string]interface{}{"type": kind})
			wrote = true
		}
	}
	flushLines()
	return wrote
}

func writeFrame(w io.Writer, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "data: %s\n\n", data)
}
