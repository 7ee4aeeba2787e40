package usecase

import (
	"context"
	"errors"
	"fmt"

	chat "skillswap/internal/pkg/chat/domain"
	repository "skillswap/internal/pkg/chat/persistence/repository/port"
)

// creationAttempts bounds the lookup/create retry loop for a brand-new
// conversation. One retry suffices after a lost race; the bound guards against
// pathological storage behavior.
const creationAttempts = 3

// resolveConversation returns the single conversation for (pair, listing),
// creating it when absent. Concurrent first-sends are collapsed by the
// storage-level insert-if-absent: the loser of the race retries the lookup.
func resolveConversation(ctx context.Context, repo repository.Gateway, senderID, recipientID, listingID string) (*chat.Conversation, error) {
	low, high := chat.PairUsers(senderID, recipientID)

	for attempt := 0; attempt < creationAttempts; attempt++ {
		conv, err := repo.FindConversation(ctx, low, high, listingID)
		if err == nil {
			return conv, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
		}

		conv, err = repo.CreateConversation(ctx, low, high, listingID)
		if err == nil {
			return conv, nil
		}
		if errors.Is(err, repository.ErrConversationExists) {
			continue
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil, fmt.Errorf("%w: conversation resolution did not converge", ErrPersistence)
}

// checkSendPreconditions rejects a send before any side effect: unknown
// recipient or listing, and messages addressed to oneself. It returns the
// sender's read model for event payloads.
func checkSendPreconditions(ctx context.Context, repo repository.Gateway, senderID, recipientID, listingID string) (*chat.User, error) {
	if senderID == recipientID {
		return nil, chat.ErrSelfMessage
	}

	sender, err := repo.GetUser(ctx, senderID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("sender: %w", ErrRecipientNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if _, err := repo.GetUser(ctx, recipientID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRecipientNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	exists, err := repo.ListingExists(ctx, listingID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !exists {
		return nil, ErrListingNotFound
	}

	return sender, nil
}
