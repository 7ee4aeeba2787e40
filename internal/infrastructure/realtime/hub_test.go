package realtime

import (
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHubPublishReachesAllUserStreams(t *testing.T) {
	req := require.New(t)
	hub := NewHub(testLogger())

	tab1, tab2, other := &fakeStream{}, &fakeStream{}, &fakeStream{}
	hub.Subscribe("u1", tab1)
	hub.Subscribe("u1", tab2)
	hub.Subscribe("u2", other)

	delivered := hub.Publish("u1", "new_message", []byte(`{}`))
	req.Equal(2, delivered)
	req.Equal([]string{"new_message"}, tab1.delivered())
	req.Equal([]string{"new_message"}, tab2.delivered())
	req.Empty(other.delivered())
}

func TestHubPublishNoSubscribersIsNoOp(t *testing.T) {
	req := require.New(t)
	hub := NewHub(testLogger())

	req.NotPanics(func() {
		req.Equal(0, hub.Publish("ghost", "new_message", nil))
	})
	// Publishing must not retain state for the unknown user.
	req.Empty(hub.streams)
}

func TestHubUserIDNormalization(t *testing.T) {
	req := require.New(t)
	hub := NewHub(testLogger())

	s := &fakeStream{}
	hub.Subscribe("  User-1 ", s)
	req.Equal(1, hub.Publish("user-1", "x", nil))
	hub.Unsubscribe("USER-1", s)
	req.Equal(0, hub.Publish("user-1", "x", nil))
}

func TestHubUnsubscribeDeletesEmptySet(t *testing.T) {
	req := require.New(t)
	hub := NewHub(testLogger())

	s := &fakeStream{}
	hub.Subscribe("u1", s)
	hub.Unsubscribe("u1", s)
	req.Empty(hub.streams)
}

func TestHubFailedWriteUnsubscribes(t *testing.T) {
	req := require.New(t)
	hub := NewHub(testLogger())

	healthy, broken := &fakeStream{}, &fakeStream{fail: true}
	hub.Subscribe("u1", healthy)
	hub.Subscribe("u1", broken)

	req.Equal(1, hub.Publish("u1", "x", nil))
	req.Len(hub.streams["u1"], 1)
}

func TestHubConcurrentAccess(t *testing.T) {
	hub := NewHub(testLogger())

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s := &fakeStream{}
			hub.Subscribe("u1", s)
			hub.Publish("u1", "x", nil)
			hub.Unsubscribe("u1", s)
		}()
	}
	wg.Wait()
	require.Empty(t, hub.streams)
}
