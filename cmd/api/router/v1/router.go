package v1

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"skillswap/internal/auth"
	blobport "skillswap/internal/infrastructure/blob/port"
	qport "skillswap/internal/infrastructure/queue/port"
	"skillswap/internal/infrastructure/realtime"
	alertsHTTP "skillswap/internal/pkg/alerts/presentation/http"
	chatHTTP "skillswap/internal/pkg/chat/presentation/http"
)

// Deps bundles the shared infrastructure handed down to every package router.
type Deps struct {
	Pool            *pgxpool.Pool
	Queue           qport.Client
	Blob            blobport.Store
	Rooms           *realtime.Rooms
	Hub             *realtime.Hub
	Tokens          *auth.TokenManager
	StreamKeepAlive time.Duration
	Log             *slog.Logger
}

// RegisterRoutes mounts all version 1 API routes under /api/v1.
func RegisterRoutes(r *gin.Engine, d Deps) {
	v1 := r.Group("/api/v1")
	chatHTTP.RegisterRoutes(v1, d.Pool, d.Queue, d.Blob, d.Rooms, d.Hub, d.Tokens, d.Log)
	alertsHTTP.RegisterRoutes(v1, d.Queue, d.Hub, d.Tokens, d.StreamKeepAlive, d.Log)
}
