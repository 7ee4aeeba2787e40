package controller

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"skillswap/internal/auth"
	"skillswap/internal/pkg/chat/application/usecase"
	repository "skillswap/internal/pkg/chat/persistence/repository/port"
)

// ReportMessageController handles the report endpoint only (one controller per
// endpoint).
type ReportMessageController struct {
	UC     *usecase.ReportMessageUseCase
	Tokens *auth.TokenManager
}

func NewReportMessageController(uc *usecase.ReportMessageUseCase, tokens *auth.TokenManager) *ReportMessageController {
	return &ReportMessageController{UC: uc, Tokens: tokens}
}

type reportMessageRequest struct {
	Reason string `json:"reason" binding:"required"`
}

func (h *ReportMessageController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := h.Tokens.Validate(c.Query("token"))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		messageID := c.Param("messageId")
		if messageID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "messageId is required"})
			return
		}

		var req reportMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		err = h.UC.Execute(ctx, usecase.ReportMessageInput{
			MessageID:  messageID,
			ReporterID: claims.UserID,
			Reason:     req.Reason,
		})
		if err != nil {
			switch {
			case errors.Is(err, repository.ErrAlreadyReported):
				c.JSON(http.StatusConflict, gin.H{"error": "message already reported"})
			case errors.Is(err, repository.ErrNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "message not found"})
			case errors.Is(err, usecase.ErrPersistence):
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			default:
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			}
			return
		}

		c.JSON(http.StatusCreated, gin.H{"status": "reported", "message_id": messageID})
	}
}
