package server

import (
	"fmt"
	nethttp "net/http"
	"sync"
)

// eventHub fans one change notification out to every connected SSE client.
type eventHub struct {
	mu   sync.Mutex
	subs map[chan string]struct{}
}

func newEventHub() *eventHub {
	return &eventHub{subs: map[chan string]struct{}{}}
}

func (h *eventHub) subscribe() chan string {
	ch := make(chan string, 8)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *eventHub) unsubscribe(ch chan string) {
	h.mu.Lock()
	delete(h.subs, ch)
	h.mu.Unlock()
}

// broadcast delivers rel to every subscriber. Slow clients drop the event
// rather than blocking the watcher.
func (h *eventHub) broadcast(rel string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- rel:
		default:
		}
	}
}

// handleEvents is the SSE store-change feed. Each store write produces a
// "change" event carrying the store-relative path, letting the dashboard
// refetch only what moved.
func (s *Server) handleEvents(w nethttp.ResponseWriter, r *nethttp.Request) {
	if _, rerr := s.resolveRole(r); rerr != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(rerr.status)
		fmt.Fprintf(w, `{"error":%q}`, rerr.message)
		return
	}

	flusher, ok := w.(nethttp.Flusher)
	if !ok {
		nethttp.Error(w, "streaming unsupported", nethttp.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(nethttp.StatusOK)
	fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	ch := s.hub.subscribe()
	defer s.hub.unsubscribe(ch)

	for {
		select {
		case <-r.Context().Done():
			return
		case rel := <-ch:
			fmt.Fprintf(w, "event: change\ndata: %s\n\n", rel)
			flusher.Flush()
		}
	}
}
