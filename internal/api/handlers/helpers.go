package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]any{"success": false, "error": msg})
}

// eventStream writes server-sent events. Each message is one JSON document
// on a single data line, flushed immediately.
type eventStream struct {
	w  http.ResponseWriter
	rc *http.ResponseController
	r  *http.Request
}

func startEventStream(w http.ResponseWriter, r *http.Request) *eventStream {
	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	rc := http.NewResponseController(w)
	// Runs outlast the server's write timeout.
	if err := rc.SetWriteDeadline(time.Time{}); err != nil {
		log.Printf("event stream: path=%s clear write deadline: %v", r.URL.Path, err)
	}

	return &eventStream{w: w, rc: rc, r: r}
}

func (s *eventStream) send(v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Printf("event stream: path=%s encode: %v", s.r.URL.Path, err)
		return
	}
	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", b); err != nil {
		return
	}
	if err := s.rc.Flush(); err != nil {
		log.Printf("event stream: path=%s flush: %v", s.r.URL.Path, err)
	}
}
