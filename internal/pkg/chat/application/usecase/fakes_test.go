package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	qport "skillswap/internal/infrastructure/queue/port"
	chat "skillswap/internal/pkg/chat/domain"
	repository "skillswap/internal/pkg/chat/persistence/repository/port"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeGateway is an in-memory persistence gateway. Its CreateConversation
// reproduces the storage contract of an atomic insert-if-absent under a
// uniqueness constraint, so race tests exercise the same retry path as the
// pgx adapter.
type fakeGateway struct {
	mu       sync.Mutex
	users    map[string]chat.User
	listings map[string]bool
	convs    map[string]*chat.Conversation // by (low, high, listing) key
	convByID map[string]*chat.Conversation
	msgs     map[string][]chat.Message // by conversation ID, in append order
	reports  map[string]map[string]chat.Report
	seq      int
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		users:    make(map[string]chat.User),
		listings: make(map[string]bool),
		convs:    make(map[string]*chat.Conversation),
		convByID: make(map[string]*chat.Conversation),
		msgs:     make(map[string][]chat.Message),
		reports:  make(map[string]map[string]chat.Report),
	}
}

var _ repository.Gateway = (*fakeGateway)(nil)

func (f *fakeGateway) addUser(id, name string)  { f.users[id] = chat.User{ID: id, Name: name} }
func (f *fakeGateway) addListing(id string)     { f.listings[id] = true }
func pairKeyOf(low, high, listing string) string { return low + "|" + high + "|" + listing }

func (f *fakeGateway) nextID(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s-%d", prefix, f.seq)
}

func (f *fakeGateway) FindConversation(ctx context.Context, userLow, userHigh, listingID string) (*chat.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.convs[pairKeyOf(userLow, userHigh, listingID)]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeGateway) CreateConversation(ctx context.Context, userLow, userHigh, listingID string) (*chat.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := pairKeyOf(userLow, userHigh, listingID)
	if _, ok := f.convs[key]; ok {
		return nil, repository.ErrConversationExists
	}
	c := &chat.Conversation{
		ID:        f.nextID("conv"),
		UserLow:   userLow,
		UserHigh:  userHigh,
		ListingID: listingID,
		CreatedAt: time.Now().UTC(),
	}
	f.convs[key] = c
	f.convByID[c.ID] = c
	cp := *c
	return &cp, nil
}

func (f *fakeGateway) GetConversation(ctx context.Context, conversationID string) (*chat.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.convByID[conversationID]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeGateway) AppendMessage(ctx context.Context, m chat.Message) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m.ID = f.nextID("msg")
	f.msgs[m.ConversationID] = append(f.msgs[m.ConversationID], m)
	return m.ID, nil
}

func (f *fakeGateway) SetLastMessage(ctx context.Context, conversationID, messageID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.convByID[conversationID]
	if !ok {
		return repository.ErrNotFound
	}
	c.LastMessageID = &messageID
	return nil
}

func (f *fakeGateway) GetMessages(ctx context.Context, conversationID string, limit, offset int) ([]chat.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	all := f.msgs[conversationID]
	if offset > len(all) {
		offset = len(all)
	}
	out := append([]chat.Message(nil), all[offset:]...)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeGateway) ReportMessage(ctx context.Context, r chat.Report) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	byReporter := f.reports[r.MessageID]
	if byReporter == nil {
		byReporter = make(map[string]chat.Report)
		f.reports[r.MessageID] = byReporter
	}
	if _, ok := byReporter[r.ReporterID]; ok {
		return repository.ErrAlreadyReported
	}
	byReporter[r.ReporterID] = r
	return nil
}

func (f *fakeGateway) HideMessage(ctx context.Context, messageID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for convID, list := range f.msgs {
		for i := range list {
			if list[i].ID == messageID {
				f.msgs[convID][i].Hidden = true
				return nil
			}
		}
	}
	return repository.ErrNotFound
}

func (f *fakeGateway) GetUser(ctx context.Context, userID string) (*chat.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[userID]; ok {
		return &u, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeGateway) ListingExists(ctx context.Context, listingID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listings[listingID], nil
}

func (f *fakeGateway) conversationCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.convs)
}

func (f *fakeGateway) messages(conversationID string) []chat.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]chat.Message(nil), f.msgs[conversationID]...)
}

// published captures a single fan-out call.
type published struct {
	Key     string
	Event   string
	Payload []byte
}

type fakeRoomPub struct {
	mu      sync.Mutex
	records []published
}

func (f *fakeRoomPub) Publish(roomKey, event string, payload []byte) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, published{roomKey, event, payload})
	return 1
}

func (f *fakeRoomPub) all() []published {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]published(nil), f.records...)
}

type fakeUserPub struct {
	mu      sync.Mutex
	offline bool
	records []published
}

func (f *fakeUserPub) Publish(userID, event string, payload []byte) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, published{userID, event, payload})
	if f.offline {
		return 0
	}
	return 1
}

func (f *fakeUserPub) all() []published {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]published(nil), f.records...)
}

type fakeQueue struct {
	mu    sync.Mutex
	tasks []qport.Task
}

func (f *fakeQueue) Enqueue(ctx context.Context, t qport.Task, opts ...qport.EnqueueOption) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = append(f.tasks, t)
	return fmt.Sprintf("task-%d", len(f.tasks)), nil
}

func (f *fakeQueue) Close() error { return nil }

func (f *fakeQueue) all() []qport.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]qport.Task(nil), f.tasks...)
}

type fakeBlob struct {
	mu     sync.Mutex
	stored map[string][]byte
}

func newFakeBlob() *fakeBlob { return &fakeBlob{stored: make(map[string][]byte)} }

func (f *fakeBlob) Store(ctx context.Context, filename string, data []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stored[filename] = data
	return "/uploads/" + filename, nil
}
