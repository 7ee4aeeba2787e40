package usecase

import (
	"context"
	"errors"
	"fmt"

	repository "skillswap/internal/pkg/chat/persistence/repository/port"
)

// HideMessageInput identifies the message moderation wants to soft-delete.
type HideMessageInput struct {
	MessageID string
}

// HideMessageUseCase flips the soft-delete flag. Messages are never physically
// removed.
type HideMessageUseCase struct {
	Repo repository.Gateway
}

func NewHideMessageUseCase(repo repository.Gateway) *HideMessageUseCase {
	return &HideMessageUseCase{Repo: repo}
}

func (uc *HideMessageUseCase) Execute(ctx context.Context, in HideMessageInput) error {
	if in.MessageID == "" {
		return fmt.Errorf("messageId is required")
	}
	err := uc.Repo.HideMessage(ctx, in.MessageID)
	if errors.Is(err, repository.ErrNotFound) {
		return err
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}
