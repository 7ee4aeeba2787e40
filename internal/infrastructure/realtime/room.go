package realtime

import (
	"strings"
	"sync"
)

// pairSeparator joins the two sorted identities of a private room key.
const pairSeparator = ":"

// PairKey derives the deterministic room key for a pair of participant
// identities. Both argument orders yield the same key, so each side computes it
// independently without coordination.
func PairKey(idA, idB string) string {
	a := strings.TrimSpace(idA)
	b := strings.TrimSpace(idB)
	if a > b {
		a, b = b, a
	}
	return a + pairSeparator + b
}

// Rooms tracks which streams are subscribed to which room key. A stream may
// belong to several rooms at once. All state is in-memory and guarded by a
// mutex; nothing survives a restart.
type Rooms struct {
	mu     sync.RWMutex
	rooms  map[string]map[Stream]struct{}
	joined map[Stream]map[string]struct{}
}

// NewRooms constructs an initialized registry.
func NewRooms() *Rooms {
	return &Rooms{
		rooms:  make(map[string]map[Stream]struct{}),
		joined: make(map[Stream]map[string]struct{}),
	}
}

// Join subscribes the stream to the room.
func (r *Rooms) Join(roomKey string, s Stream) {
	if roomKey == "" || s == nil {
		return
	}
	r.mu.Lock()
	room := r.rooms[roomKey]
	if room == nil {
		room = make(map[Stream]struct{})
		r.rooms[roomKey] = room
	}
	room[s] = struct{}{}

	memberships := r.joined[s]
	if memberships == nil {
		memberships = make(map[string]struct{})
		r.joined[s] = memberships
	}
	memberships[roomKey] = struct{}{}
	r.mu.Unlock()
}

// Leave removes the stream from the room.
func (r *Rooms) Leave(roomKey string, s Stream) {
	r.mu.Lock()
	r.leaveLocked(roomKey, s)
	r.mu.Unlock()
}

// Drop removes the stream from every room it joined. Call on disconnect so
// dead subscriptions never accumulate.
func (r *Rooms) Drop(s Stream) {
	r.mu.Lock()
	for roomKey := range r.joined[s] {
		r.leaveLocked(roomKey, s)
	}
	delete(r.joined, s)
	r.mu.Unlock()
}

// Publish delivers the event to every stream currently in the room and returns
// how many deliveries succeeded. An empty room is a no-op, not an error. A
// failed write drops that stream from all rooms.
func (r *Rooms) Publish(roomKey, event string, payload []byte) int {
	r.mu.RLock()
	members := make([]Stream, 0, len(r.rooms[roomKey]))
	for s := range r.rooms[roomKey] {
		members = append(members, s)
	}
	r.mu.RUnlock()

	delivered := 0
	for _, s := range members {
		if err := s.SendEvent(event, payload); err != nil {
			r.Drop(s)
			continue
		}
		delivered++
	}
	return delivered
}

func (r *Rooms) leaveLocked(roomKey string, s Stream) {
	room := r.rooms[roomKey]
	if room == nil {
		return
	}
	delete(room, s)
	if len(room) == 0 {
		delete(r.rooms, roomKey)
	}
	if memberships, ok := r.joined[s]; ok {
		delete(memberships, roomKey)
		if len(memberships) == 0 {
			delete(r.joined, s)
		}
	}
}
