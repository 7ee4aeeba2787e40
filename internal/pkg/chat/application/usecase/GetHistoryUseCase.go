package usecase

import (
	"context"
	"errors"
	"fmt"

	chat "skillswap/internal/pkg/chat/domain"
	repository "skillswap/internal/pkg/chat/persistence/repository/port"
)

// GetHistoryInput carries parameters to fetch messages of a conversation.
type GetHistoryInput struct {
	ConversationID string
	UserID         string
	Limit          int
	Offset         int
}

// GetHistoryUseCase returns a conversation's messages in send order, for
// participants only. This is how an offline recipient catches up on messages
// the hub never delivered.
type GetHistoryUseCase struct {
	Repo repository.Gateway
}

func NewGetHistoryUseCase(repo repository.Gateway) *GetHistoryUseCase {
	return &GetHistoryUseCase{Repo: repo}
}

func (uc *GetHistoryUseCase) Execute(ctx context.Context, in GetHistoryInput) ([]chat.Message, error) {
	if in.ConversationID == "" || in.UserID == "" {
		return nil, fmt.Errorf("conversationId and userId are required")
	}

	conv, err := uc.Repo.GetConversation(ctx, in.ConversationID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !conv.HasParticipant(in.UserID) {
		return nil, ErrNotParticipant
	}

	msgs, err := uc.Repo.GetMessages(ctx, in.ConversationID, in.Limit, in.Offset)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	// Moderated messages keep their slot but lose their content.
	for i := range msgs {
		if msgs[i].Hidden {
			msgs[i].Body = nil
			msgs[i].AttachmentURL = nil
			msgs[i].AttachmentName = nil
		}
	}
	return msgs, nil
}
