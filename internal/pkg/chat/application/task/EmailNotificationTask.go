package task

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"skillswap/internal/infrastructure/mail"
	qport "skillswap/internal/infrastructure/queue/port"
)

// EmailNotificationTaskType is the queue task name for the out-of-band email
// alert sent to a message recipient.
const EmailNotificationTaskType = "messaging:notify_email"

// EmailNotificationPayload is the JSON payload transported via the queue.
type EmailNotificationPayload struct {
	RecipientID    string `json:"recipientId"`
	ConversationID string `json:"conversationId"`
	SenderName     string `json:"senderName"`
	Preview        string `json:"preview"`
}

// NewEmailNotificationTask marshals the payload into a queue task.
func NewEmailNotificationTask(p EmailNotificationPayload) (qport.Task, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return qport.Task{}, err
	}
	return qport.Task{Type: EmailNotificationTaskType, Payload: b}, nil
}

// RegisterEmailNotificationTask binds the handler to the worker server. The
// email channel is best-effort: failures are logged and swallowed so they can
// never bleed back into the message-send path.
func RegisterEmailNotificationTask(srv qport.Server, mailer mail.Mailer, log *slog.Logger) {
	srv.Register(EmailNotificationTaskType, func(ctx context.Context, t qport.Task) error {
		var p EmailNotificationPayload
		if err := json.Unmarshal(t.Payload, &p); err != nil {
			// Malformed payload: retrying cannot help.
			log.Warn("drop malformed email task", "error", err)
			return nil
		}
		subject := fmt.Sprintf("New message from %s", p.SenderName)
		if err := mailer.Send(ctx, p.RecipientID, subject, p.Preview); err != nil {
			log.Warn("email notification failed", "recipient", p.RecipientID, "error", err)
		}
		return nil
	})
}
