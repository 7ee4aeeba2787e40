package chat

import (
	"errors"
	"strings"
	"time"
)

// MessageType represents the kind of message content.
// 0=text, 1=file
type MessageType int16

const (
	MessageTypeText MessageType = 0
	MessageTypeFile MessageType = 1
)

// Message is an append-only log entry in a conversation. Messages are never
// physically deleted; moderation flips the Hidden flag.
type Message struct {
	ID             string      `db:"id"`
	ConversationID string      `db:"conversation_id"`
	SenderID       string      `db:"sender_id"`
	CreatedAt      time.Time   `db:"created_at"`
	Body           *string     `db:"body"`
	MsgType        MessageType `db:"msg_type"`
	AttachmentURL  *string     `db:"attachment_url"`
	AttachmentName *string     `db:"attachment_name"`
	Hidden         bool        `db:"hidden"`
}

// NewMessage validates and normalizes a message before persistence.
func NewMessage(m Message) (*Message, error) {
	if m.ConversationID == "" || m.SenderID == "" {
		return nil, errors.New("chat: conversation_id and sender_id are required")
	}

	if m.Body != nil {
		trimmed := strings.TrimSpace(*m.Body)
		if trimmed == "" {
			m.Body = nil
		} else {
			m.Body = &trimmed
		}
	}

	if m.Body == nil && m.AttachmentURL == nil {
		return nil, ErrEmptyMessage
	}

	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}

	return &m, nil
}

// Report records that a user flagged a message. A user may report a given
// message at most once; the storage layer enforces the uniqueness.
type Report struct {
	MessageID  string    `db:"message_id"`
	ReporterID string    `db:"reporter_id"`
	Reason     string    `db:"reason"`
	CreatedAt  time.Time `db:"created_at"`
}
