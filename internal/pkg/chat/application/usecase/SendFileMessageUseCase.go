package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	blobport "skillswap/internal/infrastructure/blob/port"
	"skillswap/internal/infrastructure/realtime"
	chat "skillswap/internal/pkg/chat/domain"
	repository "skillswap/internal/pkg/chat/persistence/repository/port"
)

// SendFileMessageInput carries a binary attachment destined for a conversation.
type SendFileMessageInput struct {
	SenderID    string
	RecipientID string
	ListingID   string
	Filename    string
	Data        []byte
}

// SendFileMessageUseCase stores the payload through the blob store and persists
// a message whose content is a file-reference marker instead of plain text.
// It shares the resolve/persist/deliver pipeline with text sends.
type SendFileMessageUseCase struct {
	Repo repository.Gateway
	Blob blobport.Store
	Pub  Publishers
	Log  *slog.Logger
}

func NewSendFileMessageUseCase(repo repository.Gateway, blob blobport.Store, pub Publishers, log *slog.Logger) *SendFileMessageUseCase {
	return &SendFileMessageUseCase{Repo: repo, Blob: blob, Pub: pub, Log: log}
}

func (uc *SendFileMessageUseCase) Execute(ctx context.Context, in SendFileMessageInput) (*chat.Message, error) {
	if in.SenderID == "" || in.RecipientID == "" || in.ListingID == "" {
		return nil, fmt.Errorf("senderId, recipientId and listingId are required")
	}
	if in.Filename == "" || len(in.Data) == 0 {
		return nil, fmt.Errorf("filename and data are required")
	}

	sender, err := checkSendPreconditions(ctx, uc.Repo, in.SenderID, in.RecipientID, in.ListingID)
	if err != nil {
		return nil, err
	}

	conv, err := resolveConversation(ctx, uc.Repo, in.SenderID, in.RecipientID, in.ListingID)
	if err != nil {
		return nil, err
	}

	url, err := uc.Blob.Store(ctx, in.Filename, in.Data)
	if err != nil {
		return nil, fmt.Errorf("store attachment: %w", err)
	}

	name := in.Filename
	msg, err := chat.NewMessage(chat.Message{
		ConversationID: conv.ID,
		SenderID:       in.SenderID,
		MsgType:        chat.MessageTypeFile,
		AttachmentURL:  &url,
		AttachmentName: &name,
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

	return msg, nil
}
