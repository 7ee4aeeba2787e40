package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	v1 "skillswap/cmd/api/router/v1"
	"skillswap/internal/auth"
	"skillswap/internal/config"
	blobAdapter "skillswap/internal/infrastructure/blob/adapter"
	cacheAdapter "skillswap/internal/infrastructure/cache/adapter"
	"skillswap/internal/infrastructure/database"
	"skillswap/internal/infrastructure/mail"
	queueAdapter "skillswap/internal/infrastructure/queue/adapter"
	"skillswap/internal/infrastructure/realtime"
	alertsTask "skillswap/internal/pkg/alerts/application/task"
	alertsUsecase "skillswap/internal/pkg/alerts/application/usecase"
	alertsRepo "skillswap/internal/pkg/alerts/persistence/repository/adapter"
	chatTask "skillswap/internal/pkg/chat/application/task"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn(".env file not loaded", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	log := newLogger(cfg.LogLevel)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	pool, err := database.Connect(connectCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	cache, err := cacheAdapter.NewRedisCache(cfg.RedisURL)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	defer cache.Close()

	queueClient, err := queueAdapter.NewAsynqClient(cfg.RedisURL)
	if err != nil {
		log.Error("queue client failed", "error", err)
		os.Exit(1)
	}
	defer queueClient.Close()

	blob, err := blobAdapter.NewDiskStore(cfg.BlobDir, "/files")
	if err != nil {
		log.Error("blob store init failed", "error", err)
		os.Exit(1)
	}

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	rooms := realtime.NewRooms()
	hub := realtime.NewHub(log)

	// Background workers share the process with the HTTP server.
	worker, err := queueAdapter.NewAsynqServer(cfg.RedisURL, cfg.AsynqConcurrency, log)
	if err != nil {
		log.Error("queue server failed", "error", err)
		os.Exit(1)
	}
	chatTask.RegisterEmailNotificationTask(worker, &mail.SlogMailer{Log: log}, log)

	dispatchUC := alertsUsecase.NewDispatchListingUseCase(
		alertsRepo.NewPgStore(pool), cache, hub, cfg.FilterCacheTTL, log,
	)
	alertsTask.RegisterListingCreatedTask(worker, dispatchUC, log)

	workerErr := make(chan error, 1)
	go func() {
		workerErr <- worker.Run(ctx)
	}()

	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})
	r.Static("/files", cfg.BlobDir)

	v1.RegisterRoutes(r, v1.Deps{
		Pool:            pool,
		Queue:           queueClient,
		Blob:            blob,
		Rooms:           rooms,
		Hub:             hub,
		Tokens:          tokens,
		StreamKeepAlive: cfg.StreamKeepAlive,
		Log:             log,
	})

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: r}
	go func() {
		log.Info("http server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "error", err)
			stop()
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-workerErr:
		if err != nil {
			log.Error("worker stopped", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http shutdown incomplete", "error", err)
	}
	if err := worker.Stop(shutdownCtx); err != nil {
		log.Warn("worker shutdown incomplete", "error", err)
	}
	log.Info("shutdown complete")
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
