package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"skillswap/internal/auth"
	qport "skillswap/internal/infrastructure/queue/port"
	"skillswap/internal/infrastructure/realtime"
	"skillswap/internal/pkg/alerts/presentation/controller"
)

// RegisterRoutes registers the notification endpoints under the given router
// group.
func RegisterRoutes(
	g *gin.RouterGroup,
	queue qport.Client,
	hub *realtime.Hub,
	tokens *auth.TokenManager,
	keepAlive time.Duration,
	log *slog.Logger,
) {
	streamCtl := controller.NewNotificationStreamController(hub, tokens, keepAlive, log)
	createdCtl := controller.NewListingCreatedController(queue, log)

	// GET /api/v1/notifications/stream -> SSE channel for listing-match pushes
	g.GET("/notifications/stream", streamCtl.Handle())

	// POST /api/v1/listings/:listingId/created -> creation hook from listing CRUD
	g.POST("/listings/:listingId/created", createdCtl.Handle())
}
