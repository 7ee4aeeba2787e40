package controller

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"skillswap/internal/auth"
	"skillswap/internal/pkg/chat/application/usecase"
	repository "skillswap/internal/pkg/chat/persistence/repository/port"
)

// GetHistoryController serves a conversation's persisted messages. This is the
// catch-up path for recipients who were offline when the hub published.
type GetHistoryController struct {
	UC     *usecase.GetHistoryUseCase
	Tokens *auth.TokenManager
}

func NewGetHistoryController(uc *usecase.GetHistoryUseCase, tokens *auth.TokenManager) *GetHistoryController {
	return &GetHistoryController{UC: uc, Tokens: tokens}
}

func (h *GetHistoryController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := h.Tokens.Validate(c.Query("token"))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		conversationID := c.Param("conversationId")
		if conversationID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "conversationId is required"})
			return
		}

		limit := 50
		offset := 0
		if v := c.Query("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				limit = n
			}
		}
		if v := c.Query("offset"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n >= 0 {
				offset = n
			}
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		msgs, err := h.UC.Execute(ctx, usecase.GetHistoryInput{
			ConversationID: conversationID,
			UserID:         claims.UserID,
			Limit:          limit,
			Offset:         offset,
		})
		if err != nil {
			switch {
			case errors.Is(err, repository.ErrNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "conversation not found"})
			case errors.Is(err, usecase.ErrNotParticipant):
				c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			case errors.Is(err, usecase.ErrPersistence):
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			default:
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			}
			return
		}

		out := make([]gin.H, 0, len(msgs))
		for _, m := range msgs {
			out = append(out, gin.H{
				"id":              m.ID,
				"conversation_id": m.ConversationID,
				"sender_id":       m.SenderID,
				"created_at":      m.CreatedAt,
				"body":            m.Body,
				"msg_type":        m.MsgType,
				"attachment_url":  m.AttachmentURL,
				"attachment_name": m.AttachmentName,
				"hidden":          m.Hidden,
			})
		}

		c.JSON(http.StatusOK, gin.H{
			"messages": out,
			"limit":    limit,
			"offset":   offset,
			"count":    len(out),
		})
	}
}
