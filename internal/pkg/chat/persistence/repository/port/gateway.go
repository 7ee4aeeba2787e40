package repository

import (
	"context"
	"errors"

	chat "skillswap/internal/pkg/chat/domain"
)

// Typed errors the gateway surfaces so use cases can branch with errors.Is.
var (
	ErrNotFound = errors.New("repository: not found")

	// ErrConversationExists signals the insert-if-absent lost a creation race;
	// callers retry the lookup instead of failing the send.
	ErrConversationExists = errors.New("repository: conversation already exists")

	// ErrAlreadyReported signals a duplicate report by the same user.
	ErrAlreadyReported = errors.New("repository: message already reported by this user")
)

// Gateway defines the durable-store operations the messaging core consumes.
// Implementations must be safe for concurrent use.
type Gateway interface {
	// FindConversation resolves the conversation for a canonical pair and
	// listing, or ErrNotFound.
	FindConversation(ctx context.Context, userLow, userHigh, listingID string) (*chat.Conversation, error)

	// CreateConversation atomically inserts the conversation if absent. A lost
	// race returns ErrConversationExists and no row is written.
	CreateConversation(ctx context.Context, userLow, userHigh, listingID string) (*chat.Conversation, error)

	// GetConversation fetches a conversation by ID, or ErrNotFound.
	GetConversation(ctx context.Context, conversationID string) (*chat.Conversation, error)

	// AppendMessage persists a message and returns the generated ID.
	AppendMessage(ctx context.Context, m chat.Message) (string, error)

	// SetLastMessage advances the conversation's last-message pointer.
	SetLastMessage(ctx context.Context, conversationID, messageID string) error

	// GetMessages returns messages of a conversation in send order.
	GetMessages(ctx context.Context, conversationID string, limit, offset int) ([]chat.Message, error)

	// ReportMessage records a report; a second report by the same user returns
	// ErrAlreadyReported.
	ReportMessage(ctx context.Context, r chat.Report) error

	// HideMessage soft-deletes a message for moderation.
	HideMessage(ctx context.Context, messageID string) error

	// GetUser resolves the slim user read model, or ErrNotFound.
	GetUser(ctx context.Context, userID string) (*chat.User, error)

	// ListingExists tells whether the referenced listing is known.
	ListingExists(ctx context.Context, listingID string) (bool, error)
}
