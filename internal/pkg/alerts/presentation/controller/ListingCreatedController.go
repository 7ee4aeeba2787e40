package controller

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	qport "skillswap/internal/infrastructure/queue/port"
	"skillswap/internal/pkg/alerts/application/task"
)

// ListingCreatedController is the creation hook the listing CRUD service calls
// after persisting a new listing. It only enqueues the evaluation task; the
// dispatch itself runs on the worker.
type ListingCreatedController struct {
	Queue qport.Client
	Log   *slog.Logger
}

func NewListingCreatedController(queue qport.Client, log *slog.Logger) *ListingCreatedController {
	return &ListingCreatedController{Queue: queue, Log: log}
}

func (h *ListingCreatedController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		listingID := c.Param("listingId")
		if listingID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "listingId is required"})
			return
		}

		t, err := task.NewListingCreatedTask(task.ListingCreatedPayload{ListingID: listingID})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		id, err := h.Queue.Enqueue(ctx, t, qport.EnqueueOption{
			Queue:    "alerts",
			MaxRetry: 5,
			// Re-created hooks for the same listing collapse within the window.
			UniqueTTL: time.Minute,
		})
		if err != nil {
			h.Log.Error("enqueue listing dispatch failed", "listing", listingID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not schedule dispatch"})
			return
		}

		c.JSON(http.StatusAccepted, gin.H{"status": "scheduled", "task_id": id, "listing_id": listingID})
	}
}
