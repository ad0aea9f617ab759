package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// TableEvents handles Server-Sent Events for spectators of a table.
// GET /api/tables/{id}/events
//
// The first event is the table state; after that every notification of the board is
// streamed with its type as the event name until the client goes away or the table
// closes.
func (h *Handlers) TableEvents(w http.ResponseWriter, r *http.Request) {
	t, ok := h.table(w, r)
	if !ok {
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported", "STREAMING_UNSUPPORTED")
		return
	}
	ctx := r.Context()
	events, err := t.Subscribe(ctx)
	if err != nil {
		writeError(w, http.StatusGone, err.Error(), "TABLE_CLOSED")
		return
	}
	defer t.Unsubscribe(context.Background(), events)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-events:
			if !ok {
				writeSSEEvent(w, "done", nil)
				flusher.Flush()
				return
			}
			writeSSEEvent(w, msg.Type, msg.Payload)
			flusher.Flush()
		}
	}
}

// writeSSEEvent writes a Server-Sent Event to the response.
func writeSSEEvent(w http.ResponseWriter, event string, data interface{}) {
	fmt.Fprintf(w, "event: %s\n", event)
	if data != nil {
		jsonData, _ := json.Marshal(data)
		fmt.Fprintf(w, "data: %s\n", jsonData)
	}
	fmt.Fprintf(w, "\n")
}
