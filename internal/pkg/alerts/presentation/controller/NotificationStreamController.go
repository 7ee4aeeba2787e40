package controller

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"skillswap/internal/auth"
	"skillswap/internal/infrastructure/realtime"
)

// NotificationStreamController serves the one-way SSE channel a client keeps
// open to receive listing-match pushes. EventSource cannot set headers, so the
// stream token travels as a query parameter.
type NotificationStreamController struct {
	hub       *realtime.Hub
	tokens    *auth.TokenManager
	keepAlive time.Duration
	log       *slog.Logger
}

func NewNotificationStreamController(hub *realtime.Hub, tokens *auth.TokenManager, keepAlive time.Duration, log *slog.Logger) *NotificationStreamController {
	return &NotificationStreamController{hub: hub, tokens: tokens, keepAlive: keepAlive, log: log}
}

// sseStream adapts a response writer into a realtime.Stream. Writes are
// serialized through a buffered channel so hub publishes never block on a slow
// client; a full buffer counts as a failed delivery.
type sseStream struct {
	events chan []byte
	closed chan struct{}
}

var errStreamBusy = errors.New("sse stream buffer full")
var errStreamClosed = errors.New("sse stream closed")

func newSSEStream() *sseStream {
	return &sseStream{
		events: make(chan []byte, 64),
		closed: make(chan struct{}),
	}
}

var _ realtime.Stream = (*sseStream)(nil)

// SendEvent encodes the event in SSE wire format and queues it for the write
// loop. It never blocks.
func (s *sseStream) SendEvent(event string, payload []byte) error {
	frame := encodeSSE(event, payload)
	select {
	case <-s.closed:
		return errStreamClosed
	case s.events <- frame:
		return nil
	default:
		return errStreamBusy
	}
}

// encodeSSE renders one server-sent event. A nil payload produces an event
// with no data line, which EventSource still surfaces by name.
func encodeSSE(event string, payload []byte) []byte {
	if len(payload) == 0 {
		return []byte(fmt.Sprintf("event: %s\n\n", event))
	}
	return []byte(fmt.Sprintf("event: %s\ndata: %s\n\n", event, payload))
}

// Handle authenticates the stream token, subscribes the connection to the
// user's channel and pumps events until the client goes away.
func (ctl *NotificationStreamController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := ctl.tokens.Validate(c.Query("token"))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		userID := claims.UserID

		flusher, ok := c.Writer.(http.Flusher)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "streaming unsupported"})
			return
		}

		c.Header("Content-Type", "text/event-stream")
		c.Header("Cache-Control", "no-cache")
		c.Header("Connection", "keep-alive")
		c.Header("X-Accel-Buffering", "no")
		c.Writer.WriteHeader(http.StatusOK)

		// Tell the client the subscription is live before any event can flow.
		if err := writeFrame(c.Writer, flusher, encodeSSE("ready", nil)); err != nil {
			return
		}

		stream := newSSEStream()
		ctl.hub.Subscribe(userID, stream)
		defer func() {
			ctl.hub.Unsubscribe(userID, stream)
			close(stream.closed)
		}()

		keepAlive := time.NewTicker(ctl.keepAlive)
		defer keepAlive.Stop()

		ctx := c.Request.Context()
		for {
			select {
			case <-ctx.Done():
				return
			case frame := <-stream.events:
				if err := writeFrame(c.Writer, flusher, frame); err != nil {
					ctl.log.Debug("sse write failed", "user", userID, "error", err)
					return
				}
			case <-keepAlive.C:
				// Comment line: ignored by EventSource, defeats idle timeouts.
				if err := writeFrame(c.Writer, flusher, []byte(": keep-alive\n\n")); err != nil {
					return
				}
			}
		}
	}
}

func writeFrame(w io.Writer, flusher http.Flusher, frame []byte) error {
	if _, err := w.Write(frame); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}
