package controller

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"skillswap/internal/auth"
	"skillswap/internal/infrastructure/realtime"
	"skillswap/internal/pkg/chat/application/usecase"
	chat "skillswap/internal/pkg/chat/domain"
)

// ChannelSocketController handles the bidirectional websocket endpoint for
// private-message traffic. Each connection authenticates once via a stream
// token and may then join pair rooms, join its own user channel, and submit
// messages.
type ChannelSocketController struct {
	rooms           *realtime.Rooms
	hub             *realtime.Hub
	tokens          *auth.TokenManager
	sendUC          *usecase.SendMessageUseCase
	sendFileUC      *usecase.SendFileMessageUseCase
	log             *slog.Logger
	inflightTimeout time.Duration
}

func NewChannelSocketController(
	rooms *realtime.Rooms,
	hub *realtime.Hub,
	tokens *auth.TokenManager,
	sendUC *usecase.SendMessageUseCase,
	sendFileUC *usecase.SendFileMessageUseCase,
	log *slog.Logger,
) *ChannelSocketController {
	return &ChannelSocketController{
		rooms:           rooms,
		hub:             hub,
		tokens:          tokens,
		sendUC:          sendUC,
		sendFileUC:      sendFileUC,
		log:             log,
		inflightTimeout: 5 * time.Second,
	}
}

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// The token in the query string is the authentication boundary.
		return true
	},
}

type inboundFrame struct {
	Type        string `json:"type"`
	RecipientID string `json:"recipient_id,omitempty"`
	ListingID   string `json:"listing_id,omitempty"`
	Body        string `json:"body,omitempty"`
	Filename    string `json:"filename,omitempty"`
	Data        string `json:"data,omitempty"` // base64 for file_message frames
}

type ackFrame struct {
	Type           string `json:"type"`
	RoomKey        string `json:"room_key,omitempty"`
	MessageID      string `json:"message_id,omitempty"`
	ConversationID string `json:"conversation_id,omitempty"`
}

type errorFrame struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

const defaultReadTimeout = 60 * time.Second

// Handle upgrades the HTTP connection and processes frames until the client
// disconnects. Disconnecting promptly drops the connection from every room and
// from the user-channel index.
func (ctl *ChannelSocketController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := ctl.tokens.Validate(c.Query("token"))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		userID := claims.UserID

		ws, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade already wrote the response.
			return
		}

		conn := realtime.NewConnection(userID, ws)
		conn.Start()
		defer func() {
			ctl.rooms.Drop(conn)
			ctl.hub.Unsubscribe(userID, conn)
			conn.Close(websocket.CloseNormalClosure, "session closed")
		}()

		ws.SetReadLimit(1 << 20) // 1MB payload cap
		_ = ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		ws.SetPongHandler(func(string) error {
			return ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		})

		ctl.reply(conn, "connected", ackFrame{Type: "connected"})

		for {
			_, data, err := ws.ReadMessage()
			if err != nil {
				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) ||
					errors.Is(err, websocket.ErrCloseSent) {
					return
				}
				ctl.replyError(conn, "read_error", err.Error())
				return
			}

			var frame inboundFrame
			if err := json.Unmarshal(data, &frame); err != nil {
				ctl.replyError(conn, "bad_request", "invalid payload")
				continue
			}

			switch frame.Type {
			case "join":
				ctl.handleJoin(conn, userID, frame)
			case "join_user":
				ctl.hub.Subscribe(userID, conn)
				ctl.reply(conn, "ack", ackFrame{Type: "user_joined"})
			case "leave":
				ctl.handleLeave(conn, userID, frame)
			case "message":
				ctl.handleMessage(c, conn, userID, frame)
			case "file_message":
				ctl.handleFileMessage(c, conn, userID, frame)
			default:
				ctl.replyError(conn, "unsupported_type", "unknown frame type")
			}
		}
	}
}

func (ctl *ChannelSocketController) handleJoin(conn *realtime.Connection, userID string, frame inboundFrame) {
	if frame.RecipientID == "" {
		ctl.replyError(conn, "bad_request", "recipient_id is required")
		return
	}
	key := realtime.PairKey(userID, frame.RecipientID)
	ctl.rooms.Join(key, conn)
	ctl.reply(conn, "ack", ackFrame{Type: "joined", RoomKey: key})
}

func (ctl *ChannelSocketController) handleLeave(conn *realtime.Connection, userID string, frame inboundFrame) {
	if frame.RecipientID == "" {
		ctl.replyError(conn, "bad_request", "recipient_id is required")
		return
	}
	key := realtime.PairKey(userID, frame.RecipientID)
	ctl.rooms.Leave(key, conn)
	ctl.reply(conn, "ack", ackFrame{Type: "left", RoomKey: key})
}

func (ctl *ChannelSocketController) handleMessage(c *gin.Context, conn *realtime.Connection, userID string, frame inboundFrame) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.inflightTimeout)
	defer cancel()

	msg, err := ctl.sendUC.Execute(ctx, usecase.SendMessageInput{
		SenderID:    userID,
		RecipientID: frame.RecipientID,
		ListingID:   frame.ListingID,
		Body:        frame.Body,
	})
	if err != nil {
		ctl.handleUseCaseError(conn, err)
		return
	}

	// Local confirmation to the sender, regardless of recipient delivery.
	ctl.reply(conn, "ack", ackFrame{Type: "sent", MessageID: msg.ID, ConversationID: msg.ConversationID})
}

func (ctl *ChannelSocketController) handleFileMessage(c *gin.Context, conn *realtime.Connection, userID string, frame inboundFrame) {
	raw, err := base64.StdEncoding.DecodeString(frame.Data)
	if err != nil {
		ctl.replyError(conn, "bad_request", "data must be base64")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.inflightTimeout)
	defer cancel()

	msg, err := ctl.sendFileUC.Execute(ctx, usecase.SendFileMessageInput{
		SenderID:    userID,
		RecipientID: frame.RecipientID,
		ListingID:   frame.ListingID,
		Filename:    frame.Filename,
		Data:        raw,
	})
	if err != nil {
		ctl.handleUseCaseError(conn, err)
		return
	}

	ctl.reply(conn, "ack", ackFrame{Type: "sent", MessageID: msg.ID, ConversationID: msg.ConversationID})
}

func (ctl *ChannelSocketController) handleUseCaseError(conn *realtime.Connection, err error) {
	switch {
	case errors.Is(err, usecase.ErrPersistence):
		ctl.replyError(conn, "internal_error", "unexpected persistence error")
	case errors.Is(err, usecase.ErrRecipientNotFound), errors.Is(err, usecase.ErrListingNotFound):
		ctl.replyError(conn, "not_found", err.Error())
	case errors.Is(err, chat.ErrSelfMessage), errors.Is(err, chat.ErrEmptyMessage):
		ctl.replyError(conn, "bad_request", err.Error())
	default:
		ctl.replyError(conn, "bad_request", err.Error())
	}
}

func (ctl *ChannelSocketController) reply(conn *realtime.Connection, event string, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := conn.SendEvent(event, payload); err != nil {
		ctl.log.Debug("reply dropped", "event", event, "error", err)
	}
}

func (ctl *ChannelSocketController) replyError(conn *realtime.Connection, code, message string) {
	ctl.reply(conn, "error", errorFrame{Code: code, Error: message})
}
