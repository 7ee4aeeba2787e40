package usecase

import (
	"context"
	"errors"
	"fmt"

	chat "skillswap/internal/pkg/chat/domain"
	repository "skillswap/internal/pkg/chat/persistence/repository/port"
)

// ReportMessageInput identifies the message, the reporter and their reason.
type ReportMessageInput struct {
	MessageID  string
	ReporterID string
	Reason     string
}

// ReportMessageUseCase records a moderation report. A user may report a given
// message at most once; duplicates are rejected without creating a second
// entry.
type ReportMessageUseCase struct {
	Repo repository.Gateway
}

func NewReportMessageUseCase(repo repository.Gateway) *ReportMessageUseCase {
	return &ReportMessageUseCase{Repo: repo}
}

func (uc *ReportMessageUseCase) Execute(ctx context.Context, in ReportMessageInput) error {
	if in.MessageID == "" || in.ReporterID == "" {
		return fmt.Errorf("messageId and reporterId are required")
	}
	if in.Reason == "" {
		return fmt.Errorf("reason is required")
	}

	err := uc.Repo.ReportMessage(ctx, chat.Report{
		MessageID:  in.MessageID,
		ReporterID: in.ReporterID,
		Reason:     in.Reason,
	})
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyReported) || errors.Is(err, repository.ErrNotFound) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}
