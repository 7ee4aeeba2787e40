package mail

import (
	"context"
	"log/slog"
)

// Mailer is the contract for the out-of-band email side channel. The real
// provider lives outside this service; failures here must never roll back a
// message send.
type Mailer interface {
	Send(ctx context.Context, recipientID, subject, body string) error
}

// SlogMailer is the default adapter: it records the intent to send instead of
// talking to a provider, which is enough for the delivery core and for tests.
type SlogMailer struct {
	Log *slog.Logger
}

var _ Mailer = (*SlogMailer)(nil)

func (m *SlogMailer) Send(ctx context.Context, recipientID, subject, body string) error {
	m.Log.Info("email notification", "recipient", recipientID, "subject", subject)
	return nil
}
