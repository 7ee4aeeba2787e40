package port

import "context"

// Store persists opaque binary payloads (file-message attachments) and returns
// a retrievable URL or path. Implementations must be safe for concurrent use.
type Store interface {
	// Store writes data under a name derived from filename and returns the
	// location a client can later fetch it from.
	Store(ctx context.Context, filename string, data []byte) (string, error)
}
