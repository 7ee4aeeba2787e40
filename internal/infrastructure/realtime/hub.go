package realtime

import (
	"log/slog"
	"strings"
	"sync"
)

// Hub is the per-user fan-out index: userID -> set of live output streams.
// Delivery is at-most-once and best-effort; there is no queue, no retry and no
// persistence of missed notifications. Memory stays bounded by active
// connections because empty sets are deleted eagerly.
type Hub struct {
	mu      sync.RWMutex
	streams map[string]map[Stream]struct{}
	log     *slog.Logger
}

// NewHub constructs an initialized Hub.
func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		streams: make(map[string]map[Stream]struct{}),
		log:     log,
	}
}

// Subscribe registers a stream under the user identity. A user may hold many
// streams at once (multiple tabs or devices).
func (h *Hub) Subscribe(userID string, s Stream) {
	key := canonicalUserID(userID)
	if key == "" || s == nil {
		return
	}
	h.mu.Lock()
	set := h.streams[key]
	if set == nil {
		set = make(map[Stream]struct{})
		h.streams[key] = set
	}
	set[s] = struct{}{}
	h.mu.Unlock()
}

// Unsubscribe removes the stream and deletes the user entry once its set is
// empty.
func (h *Hub) Unsubscribe(userID string, s Stream) {
	key := canonicalUserID(userID)
	h.mu.Lock()
	if set, ok := h.streams[key]; ok {
		delete(set, s)
		if len(set) == 0 {
			delete(h.streams, key)
		}
	}
	h.mu.Unlock()
}

// Publish writes the event to every live stream of the user and returns the
// number of successful deliveries. No subscribers is a safe no-op. A failed
// write is treated as a disconnect and unsubscribes that stream.
func (h *Hub) Publish(userID, event string, payload []byte) int {
	key := canonicalUserID(userID)

	h.mu.RLock()
	targets := make([]Stream, 0, len(h.streams[key]))
	for s := range h.streams[key] {
		targets = append(targets, s)
	}
	h.mu.RUnlock()

	delivered := 0
	for _, s := range targets {
		if err := s.SendEvent(event, payload); err != nil {
			h.log.Warn("stream write failed, unsubscribing", "user", key, "event", event, "error", err)
			h.Unsubscribe(userID, s)
			continue
		}
		delivered++
	}
	return delivered
}

// canonicalUserID normalizes a user identity to the form used as index key.
func canonicalUserID(userID string) string {
	return strings.ToLower(strings.TrimSpace(userID))
}
