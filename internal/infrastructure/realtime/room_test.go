package realtime

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeStream records delivered events and can be told to fail writes.
type fakeStream struct {
	mu     sync.Mutex
	events []string
	fail   bool
}

func (f *fakeStream) SendEvent(event string, payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("broken pipe")
	}
	f.events = append(f.events, event)
	return nil
}

func (f *fakeStream) delivered() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.events...)
}

func TestPairKeySymmetry(t *testing.T) {
	req := require.New(t)
	req.Equal(PairKey("alice", "bob"), PairKey("bob", "alice"))
	req.Equal("alice:bob", PairKey("bob", "alice"))
	req.Equal(PairKey(" u1", "u2 "), PairKey("u2", "u1"))
	req.NotEqual(PairKey("a", "b"), PairKey("a", "c"))
}

func TestRoomsPublishReachesMembers(t *testing.T) {
	req := require.New(t)
	rooms := NewRooms()
	key := PairKey("u1", "u2")

	a, b, outsider := &fakeStream{}, &fakeStream{}, &fakeStream{}
	rooms.Join(key, a)
	rooms.Join(key, b)
	rooms.Join(PairKey("u3", "u4"), outsider)

	delivered := rooms.Publish(key, "receive_private_message", []byte(`{}`))
	req.Equal(2, delivered)
	req.Equal([]string{"receive_private_message"}, a.delivered())
	req.Equal([]string{"receive_private_message"}, b.delivered())
	req.Empty(outsider.delivered())
}

func TestRoomsPublishEmptyRoomIsNoOp(t *testing.T) {
	rooms := NewRooms()
	require.Equal(t, 0, rooms.Publish("nobody:here", "x", nil))
	require.Empty(t, rooms.rooms)
}

func TestRoomsLeaveAndDrop(t *testing.T) {
	req := require.New(t)
	rooms := NewRooms()
	k1 := PairKey("u1", "u2")
	k2 := PairKey("u1", "u3")

	s := &fakeStream{}
	rooms.Join(k1, s)
	rooms.Join(k2, s)

	rooms.Leave(k1, s)
	req.Equal(0, rooms.Publish(k1, "x", nil))
	req.Equal(1, rooms.Publish(k2, "x", nil))

	rooms.Drop(s)
	req.Equal(0, rooms.Publish(k2, "x", nil))
	req.Empty(rooms.rooms)
	req.Empty(rooms.joined)
}

func TestRoomsFailedWriteDropsStream(t *testing.T) {
	req := require.New(t)
	rooms := NewRooms()
	key := PairKey("u1", "u2")

	healthy, broken := &fakeStream{}, &fakeStream{fail: true}
	rooms.Join(key, healthy)
	rooms.Join(key, broken)

	req.Equal(1, rooms.Publish(key, "x", nil))

	// The broken stream must be gone entirely.
	req.Equal(1, rooms.Publish(key, "x", nil))
	req.Len(rooms.rooms[key], 1)
}

func TestRoomsConcurrentAccess(t *testing.T) {
	rooms := NewRooms()
	key := PairKey("u1", "u2")

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s := &fakeStream{}
			rooms.Join(key, s)
			rooms.Publish(key, "x", nil)
			rooms.Drop(s)
		}()
	}
	wg.Wait()
	require.Empty(t, rooms.rooms)
}
