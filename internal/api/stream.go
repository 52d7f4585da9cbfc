package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"dispatchopt/internal/events"
	"dispatchopt/internal/model"
	"dispatchopt/internal/store"
)

// jobEventsSSE streams status transitions for one job as server-sent events
// until the job reaches a terminal status or the client disconnects.
func (s *Server) jobEventsSSE(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	view, err := s.Jobs.Status(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeProblem(w, http.StatusNotFound, "Job not found", "no job with id "+id, r.URL.Path)
			return
		}
		writeProblem(w, http.StatusInternalServerError, "Job lookup failed", err.Error(), r.URL.Path)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeProblem(w, http.StatusInternalServerError, "Streaming unsupported", "", r.URL.Path)
		return
	}

	// Subscribe before the snapshot so no transition is missed in between.
	ch, cancel := s.Broker.Subscribe(id)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	snapshot := snapshotEvent(id, view.Status, view.Progress, view.Error)
	writeSSE(w, snapshot)
	flusher.Flush()
	if snapshot.Terminal() {
		return
	}

	notify := r.Context().Done()
	for {
		select {
		case <-notify:
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
			if ev.Terminal() {
				return
			}
		case <-time.After(15 * time.Second):
			fmt.Fprintf(w, "event: heartbeat\n")
			fmt.Fprintf(w, "data: {\"jobId\":\"%s\",\"ts\":\"%s\"}\n\n", id, time.Now().Format(time.RFC3339))
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev events.JobEvent) {
	b, _ := json.Marshal(ev)
	fmt.Fprintf(w, "event: %s\n", ev.Type)
	fmt.Fprintf(w, "data: %s\n\n", string(b))
}

func snapshotEvent(id string, status model.JobStatus, progress int, errMsg string) events.JobEvent {
	ev := events.JobEvent{JobID: id, Status: string(status), Progress: progress, Error: errMsg}
	switch status {
	case model.StatusDone:
		ev.Type = events.TypeDone
	case model.StatusError:
		ev.Type = events.TypeError
	default:
		ev.Type = events.TypeProcessing
	}
	return ev
}
