package chat

import (
	"errors"
	"strings"
	"time"
)

// Domain-level errors for messaging behaviors.
var (
	ErrSelfMessage  = errors.New("chat: sender and recipient are the same user")
	ErrEmptyMessage = errors.New("chat: empty message (no body or attachment)")
)

// Conversation is the unique thread for a participant pair and the listing it
// concerns. At most one conversation exists per (pair, listing); the pair is
// stored in canonical order so the uniqueness constraint holds regardless of
// who sent first.
type Conversation struct {
	ID            string     `db:"id"`
	UserLow       string     `db:"user_low"`
	UserHigh      string     `db:"user_high"`
	ListingID     string     `db:"listing_id"`
	LastMessageID *string    `db:"last_message_id"`
	CreatedAt     time.Time  `db:"created_at"`
}

// PairUsers returns the two identities in canonical (low, high) order.
func PairUsers(a, b string) (string, string) {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)
	if a > b {
		return b, a
	}
	return a, b
}

// HasParticipant tells whether userID is one of the two parties.
func (c *Conversation) HasParticipant(userID string) bool {
	if c == nil {
		return false
	}
	return userID == c.UserLow || userID == c.UserHigh
}

// OtherParticipant returns the peer of userID, or "" when userID is not a
// participant.
func (c *Conversation) OtherParticipant(userID string) string {
	switch {
	case c == nil:
		return ""
	case userID == c.UserLow:
		return c.UserHigh
	case userID == c.UserHigh:
		return c.UserLow
	default:
		return ""
	}
}

// User is the slim read model the messaging core needs about an account.
type User struct {
	ID   string `db:"id"`
	Name string `db:"display_name"`
}
