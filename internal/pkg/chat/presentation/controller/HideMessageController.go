package controller

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"skillswap/internal/pkg/chat/application/usecase"
	repository "skillswap/internal/pkg/chat/persistence/repository/port"
)

// HideMessageController exposes the moderation soft-delete. It is intended to
// be mounted behind the operator surface, not the public API.
type HideMessageController struct {
	UC *usecase.HideMessageUseCase
}

func NewHideMessageController(uc *usecase.HideMessageUseCase) *HideMessageController {
	return &HideMessageController{UC: uc}
}

func (h *HideMessageController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		messageID := c.Param("messageId")
		if messageID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "messageId is required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		if err := h.UC.Execute(ctx, usecase.HideMessageInput{MessageID: messageID}); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "message not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "hidden", "message_id": messageID})
	}
}
