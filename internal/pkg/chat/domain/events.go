package chat

// Event names produced by the messaging core.
const (
	// EventPrivateMessage is broadcast to the pair room so both parties
	// currently viewing the conversation see the message immediately.
	EventPrivateMessage = "receive_private_message"

	// EventNewMessage is pushed through the fan-out hub to the recipient's
	// user channel so they are alerted even when the conversation is not open.
	EventNewMessage = "new_message"
)
