package usecase

import (
	"encoding/json"
	"time"

	chat "skillswap/internal/pkg/chat/domain"
)

// RoomPublisher delivers a named event to every stream in a room. Publishing
// to an empty room is a no-op.
type RoomPublisher interface {
	Publish(roomKey, event string, payload []byte) int
}

// UserPublisher multicasts a named event to every live stream of a user.
type UserPublisher interface {
	Publish(userID, event string, payload []byte) int
}

// Publishers groups the two in-memory delivery surfaces a message send touches.
type Publishers struct {
	Rooms RoomPublisher
	Hub   UserPublisher
}

// privateMessagePayload is the room-broadcast body of receive_private_message.
type privateMessagePayload struct {
	MessageID      string    `json:"messageId"`
	ConversationID string    `json:"conversationId"`
	SenderID       string    `json:"senderId"`
	SenderName     string    `json:"senderName"`
	Content        string    `json:"content"`
	AttachmentURL  *string   `json:"attachmentUrl,omitempty"`
	AttachmentName *string   `json:"attachmentName,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

// newMessagePayload is the lightweight user-channel alert for new_message.
type newMessagePayload struct {
	ConversationID string `json:"conversationId"`
	SenderID       string `json:"senderId"`
	SenderName     string `json:"senderName"`
	Message        string `json:"message"`
}

// messageContent picks the text a client should preview: the body for text
// messages, the attachment URL for file messages.
func messageContent(m chat.Message) string {
	if m.Body != nil {
		return *m.Body
	}
	if m.AttachmentURL != nil {
		return *m.AttachmentURL
	}
	return ""
}

// broadcast performs delivery steps shared by text and file sends: the room
// broadcast for both parties and the recipient's user-channel alert. Delivery
// is best-effort; offline parties simply miss the live events.
func broadcast(pub Publishers, roomKey, recipientID string, m chat.Message, sender chat.User) {
	room := privateMessagePayload{
		MessageID:      m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		SenderName:     sender.Name,
		Content:        messageContent(m),
		AttachmentURL:  m.AttachmentURL,
		AttachmentName: m.AttachmentName,
		Timestamp:      m.CreatedAt,
	}
	if payload, err := json.Marshal(room); err == nil {
		pub.Rooms.Publish(roomKey, chat.EventPrivateMessage, payload)
	}

	alert := newMessagePayload{
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		SenderName:     sender.Name,
		Message:        messageContent(m),
	}
	if payload, err := json.Marshal(alert); err == nil {
		pub.Hub.Publish(recipientID, chat.EventNewMessage, payload)
	}
}
