package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	qport "skillswap/internal/infrastructure/queue/port"
	"skillswap/internal/infrastructure/realtime"
	"skillswap/internal/pkg/chat/application/task"
	chat "skillswap/internal/pkg/chat/domain"
	repository "skillswap/internal/pkg/chat/persistence/repository/port"
)

// SendMessageInput carries the data needed to send a plain-text message.
type SendMessageInput struct {
	SenderID    string
	RecipientID string
	ListingID   string
	Body        string
}

// SendMessageUseCase is the conversation coordinator for text messages: it
// resolves-or-creates the unique conversation for (pair, listing), persists the
// message, then fans it out to the pair room and the recipient's user channel.
type SendMessageUseCase struct {
	Repo  repository.Gateway
	Pub   Publishers
	Queue qport.Client
	Log   *slog.Logger
}

func NewSendMessageUseCase(repo repository.Gateway, pub Publishers, queue qport.Client, log *slog.Logger) *SendMessageUseCase {
	return &SendMessageUseCase{Repo: repo, Pub: pub, Queue: queue, Log: log}
}

// Execute runs the full send pipeline. Persistence happens before any
// delivery, so what subscribers see is always durable; delivery itself is
// best-effort and never fails the send.
func (uc *SendMessageUseCase) Execute(ctx context.Context, in SendMessageInput) (*chat.Message, error) {
	if in.SenderID == "" || in.RecipientID == "" || in.ListingID == "" {
		return nil, fmt.Errorf("senderId, recipientId and listingId are required")
	}

	sender, err := checkSendPreconditions(ctx, uc.Repo, in.SenderID, in.RecipientID, in.ListingID)
	if err != nil {
		return nil, err
	}

	conv, err := resolveConversation(ctx, uc.Repo, in.SenderID, in.RecipientID, in.ListingID)
	if err != nil {
		return nil, err
	}

	body := in.Body
	msg, err := chat.NewMessage(chat.Message{
		ConversationID: conv.ID,
		SenderID:       in.SenderID,
		Body:           &body,
		MsgType:        chat.MessageTypeText,
		CreatedAt:      time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	id, err := uc.Repo.AppendMessage(ctx, *msg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	msg.ID = id

	if err := uc.Repo.SetLastMessage(ctx, conv.ID, id); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	broadcast(uc.Pub, realtime.PairKey(in.SenderID, in.RecipientID), in.RecipientID, *msg, *sender)
	uc.enqueueEmail(ctx, in.RecipientID, conv.ID, sender.Name, messageContent(*msg))

	return msg, nil
}

// enqueueEmail triggers the out-of-band email alert. Failures are logged and
// swallowed: the side channel must never roll back a completed send.
func (uc *SendMessageUseCase) enqueueEmail(ctx context.Context, recipientID, conversationID, senderName, preview string) {
	if uc.Queue == nil {
		return
	}
	t, err := task.NewEmailNotificationTask(task.EmailNotificationPayload{
		RecipientID:    recipientID,
		ConversationID: conversationID,
		SenderName:     senderName,
		Preview:        preview,
	})
	if err != nil {
		uc.Log.Warn("encode email task failed", "error", err)
		return
	}
	if _, err := uc.Queue.Enqueue(ctx, t, qport.EnqueueOption{Queue: "messaging", MaxRetry: 5}); err != nil {
		uc.Log.Warn("enqueue email task failed", "recipient", recipientID, "error", err)
	}
}
