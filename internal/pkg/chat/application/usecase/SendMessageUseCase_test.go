package usecase

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"skillswap/internal/infrastructure/realtime"
	"skillswap/internal/pkg/chat/application/task"
	chat "skillswap/internal/pkg/chat/domain"
)

func sendFixture() (*SendMessageUseCase, *fakeGateway, *fakeRoomPub, *fakeUserPub, *fakeQueue) {
	repo := newFakeGateway()
	repo.addUser("u1", "Alice")
	repo.addUser("u2", "Bob")
	repo.addListing("l1")

	rooms := &fakeRoomPub{}
	hub := &fakeUserPub{}
	queue := &fakeQueue{}
	uc := NewSendMessageUseCase(repo, Publishers{Rooms: rooms, Hub: hub}, queue, testLogger())
	return uc, repo, rooms, hub, queue
}

func TestSendMessageTwoPartyScenario(t *testing.T) {
	req := require.New(t)
	uc, repo, rooms, hub, queue := sendFixture()

	msg, err := uc.Execute(context.Background(), SendMessageInput{
		SenderID: "u1", RecipientID: "u2", ListingID: "l1", Body: "hello",
	})
	req.NoError(err)
	req.NotEmpty(msg.ID)
	req.Equal("u1", msg.SenderID)
	req.Equal("hello", *msg.Body)

	// Exactly one conversation, holding the message and the last-message pointer.
	req.Equal(1, repo.conversationCount())
	conv, err := repo.GetConversation(context.Background(), msg.ConversationID)
	req.NoError(err)
	req.Equal("l1", conv.ListingID)
	req.Equal(msg.ID, *conv.LastMessageID)

	// Room broadcast on the symmetric pair key.
	roomEvents := rooms.all()
	req.Len(roomEvents, 1)
	req.Equal(realtime.PairKey("u2", "u1"), roomEvents[0].Key)
	req.Equal(chat.EventPrivateMessage, roomEvents[0].Event)

	var payload struct {
		MessageID  string `json:"messageId"`
		SenderName string `json:"senderName"`
		Content    string `json:"content"`
	}
	req.NoError(json.Unmarshal(roomEvents[0].Payload, &payload))
	req.Equal(msg.ID, payload.MessageID)
	req.Equal("Alice", payload.SenderName)
	req.Equal("hello", payload.Content)

	// Recipient's user-channel alert, distinct from the room broadcast.
	hubEvents := hub.all()
	req.Len(hubEvents, 1)
	req.Equal("u2", hubEvents[0].Key)
	req.Equal(chat.EventNewMessage, hubEvents[0].Event)

	// Email side channel triggered.
	tasks := queue.all()
	req.Len(tasks, 1)
	req.Equal(task.EmailNotificationTaskType, tasks[0].Type)
}

func TestSendMessageRejectsSelf(t *testing.T) {
	uc, repo, _, _, _ := sendFixture()

	_, err := uc.Execute(context.Background(), SendMessageInput{
		SenderID: "u1", RecipientID: "u1", ListingID: "l1", Body: "hi me",
	})
	require.ErrorIs(t, err, chat.ErrSelfMessage)
	require.Equal(t, 0, repo.conversationCount())
}

func TestSendMessageRejectsUnknownRecipient(t *testing.T) {
	uc, repo, rooms, _, _ := sendFixture()

	_, err := uc.Execute(context.Background(), SendMessageInput{
		SenderID: "u1", RecipientID: "ghost", ListingID: "l1", Body: "hello",
	})
	require.ErrorIs(t, err, ErrRecipientNotFound)
	require.Equal(t, 0, repo.conversationCount())
	require.Empty(t, rooms.all())
}

func TestSendMessageRejectsUnknownListing(t *testing.T) {
	uc, repo, _, _, _ := sendFixture()

	_, err := uc.Execute(context.Background(), SendMessageInput{
		SenderID: "u1", RecipientID: "u2", ListingID: "nope", Body: "hello",
	})
	require.ErrorIs(t, err, ErrListingNotFound)
	require.Equal(t, 0, repo.conversationCount())
}

func TestSendMessageOrderingPerSender(t *testing.T) {
	req := require.New(t)
	uc, repo, _, _, _ := sendFixture()

	var convID string
	for _, body := range []string{"m1", "m2", "m3"} {
		msg, err := uc.Execute(context.Background(), SendMessageInput{
			SenderID: "u1", RecipientID: "u2", ListingID: "l1", Body: body,
		})
		req.NoError(err)
		convID = msg.ConversationID
	}

	msgs := repo.messages(convID)
	req.Len(msgs, 3)
	req.Equal("m1", *msgs[0].Body)
	req.Equal("m2", *msgs[1].Body)
	req.Equal("m3", *msgs[2].Body)
}

func TestConcurrentFirstSendsCreateOneConversation(t *testing.T) {
	req := require.New(t)
	uc, repo, _, _, _ := sendFixture()

	const senders = 20
	var wg sync.WaitGroup
	errs := make([]error, senders)
	for i := 0; i < senders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = uc.Execute(context.Background(), SendMessageInput{
				SenderID: "u1", RecipientID: "u2", ListingID: "l1", Body: "hello",
			})
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		req.NoError(err)
	}
	req.Equal(1, repo.conversationCount())
}

func TestSendMessageOfflineRecipient(t *testing.T) {
	req := require.New(t)
	repo := newFakeGateway()
	repo.addUser("u1", "Alice")
	repo.addUser("u2", "Bob")
	repo.addListing("l1")
	hub := &fakeUserPub{offline: true}
	uc := NewSendMessageUseCase(repo, Publishers{Rooms: &fakeRoomPub{}, Hub: hub}, &fakeQueue{}, testLogger())

	// Delivery to an offline recipient is silent: the send still succeeds.
	msg, err := uc.Execute(context.Background(), SendMessageInput{
		SenderID: "u1", RecipientID: "u2", ListingID: "l1", Body: "hello",
	})
	req.NoError(err)

	// The recipient catches up through history, not through the hub.
	history := NewGetHistoryUseCase(repo)
	msgs, err := history.Execute(context.Background(), GetHistoryInput{
		ConversationID: msg.ConversationID, UserID: "u2",
	})
	req.NoError(err)
	req.Len(msgs, 1)
	req.Equal("hello", *msgs[0].Body)
}

func TestSendFileMessage(t *testing.T) {
	req := require.New(t)
	repo := newFakeGateway()
	repo.addUser("u1", "Alice")
	repo.addUser("u2", "Bob")
	repo.addListing("l1")
	rooms := &fakeRoomPub{}
	hub := &fakeUserPub{}
	blob := newFakeBlob()
	uc := NewSendFileMessageUseCase(repo, blob, Publishers{Rooms: rooms, Hub: hub}, testLogger())

	msg, err := uc.Execute(context.Background(), SendFileMessageInput{
		SenderID: "u1", RecipientID: "u2", ListingID: "l1",
		Filename: "resume.pdf", Data: []byte("binary"),
	})
	req.NoError(err)
	req.Equal(chat.MessageTypeFile, msg.MsgType)
	req.Nil(msg.Body)
	req.Equal("/uploads/resume.pdf", *msg.AttachmentURL)
	req.Equal("resume.pdf", *msg.AttachmentName)
	req.Equal([]byte("binary"), blob.stored["resume.pdf"])

	req.Len(rooms.all(), 1)
	req.Len(hub.all(), 1)
}
