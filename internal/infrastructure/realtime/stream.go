package realtime

// Stream is anything that can receive a named event: a websocket connection, a
// notification stream, or an in-memory fake in tests. Implementations must not
// block; a returned error means the stream is dead and will be dropped by the
// registry that holds it.
type Stream interface {
	SendEvent(event string, payload []byte) error
}
