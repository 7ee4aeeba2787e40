package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"skillswap/internal/auth"
	blobport "skillswap/internal/infrastructure/blob/port"
	qport "skillswap/internal/infrastructure/queue/port"
	"skillswap/internal/infrastructure/realtime"
	"skillswap/internal/pkg/chat/application/usecase"
	repoAdapter "skillswap/internal/pkg/chat/persistence/repository/adapter"
	"skillswap/internal/pkg/chat/presentation/controller"
)

// RegisterRoutes registers messaging endpoints under the given router group.
// It constructs per-endpoint controllers and binds them directly to routes.
func RegisterRoutes(
	g *gin.RouterGroup,
	pool *pgxpool.Pool,
	queue qport.Client,
	blob blobport.Store,
	rooms *realtime.Rooms,
	hub *realtime.Hub,
	tokens *auth.TokenManager,
	log *slog.Logger,
) {
	repo := repoAdapter.NewPgGateway(pool)
	pub := usecase.Publishers{Rooms: rooms, Hub: hub}

	sendUC := usecase.NewSendMessageUseCase(repo, pub, queue, log)
	sendFileUC := usecase.NewSendFileMessageUseCase(repo, blob, pub, log)

	socketCtl := controller.NewChannelSocketController(rooms, hub, tokens, sendUC, sendFileUC, log)
	historyCtl := controller.NewGetHistoryController(usecase.NewGetHistoryUseCase(repo), tokens)
	reportCtl := controller.NewReportMessageController(usecase.NewReportMessageUseCase(repo), tokens)
	hideCtl := controller.NewHideMessageController(usecase.NewHideMessageUseCase(repo))

	// GET /api/v1/chat/ws -> websocket endpoint for realtime private messaging
	g.GET("/chat/ws", socketCtl.Handle())

	// GET /api/v1/conversations/:conversationId/messages -> persisted history
	g.GET("/conversations/:conversationId/messages", historyCtl.Handle())

	// POST /api/v1/messages/:messageId/reports -> flag a message
	g.POST("/messages/:messageId/reports", reportCtl.Handle())

	// POST /api/v1/moderation/messages/:messageId/hide -> soft-delete
	g.POST("/moderation/messages/:messageId/hide", hideCtl.Handle())
}
