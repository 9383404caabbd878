package main

import (
    "context"
    "errors"
    "fmt"
    "net/http"
    "os/signal"
    "syscall"
    "time"

    "github.com/getsentry/sentry-go"
    "github.com/redis/go-redis/v9"
    "go.uber.org/zap"

    "github.com/d60-Lab/feed-stream/config"
    "github.com/d60-Lab/feed-stream/internal/api/handler"
    "github.com/d60-Lab/feed-stream/internal/api/router"
    "github.com/d60-Lab/feed-stream/internal/cache"
    "github.com/d60-Lab/feed-stream/internal/repository"
    "github.com/d60-Lab/feed-stream/internal/service"
    "github.com/d60-Lab/feed-stream/pkg/database"
    "github.com/d60-Lab/feed-stream/pkg/logger"
    "github.com/d60-Lab/feed-stream/pkg/tracing"
)

// @title Feed Stream API
// @version 1.0
// @description 混合推拉Feed流服务
// @BasePath /
func main() {
    cfg, err := config.Load()
    if err != nil {
        panic(err)
    }
    if err := logger.Init(cfg.Server.Mode); err != nil {
        panic(err)
    }
    defer logger.Sync()

    if cfg.Sentry.DSN != "" {
        if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.Sentry.DSN}); err != nil {
            logger.Warn("sentry init failed", zap.Error(err))
        }
        defer sentry.Flush(2 * time.Second)
    }

    ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
    defer stop()

    shutdownTracing, err := tracing.Init(ctx, cfg)
    if err != nil {
        logger.Error("tracing init failed", zap.Error(err))
    } else {
        defer func() { _ = shutdownTracing(context.Background()) }()
    }

    db, err := database.InitDB(cfg)
    if err != nil {
        logger.Error("init database failed", zap.Error(err))
        return
    }

    rdb := redis.NewClient(&redis.Options{
        Addr:     cfg.Redis.Addr,
        Password: cfg.Redis.Password,
        DB:       cfg.Redis.DB,
    })
    if err := rdb.Ping(ctx).Err(); err != nil {
        logger.Error("redis ping failed", zap.Error(err))
        return
    }

    userRepo := repository.NewUserRepository(db)
    postRepo := repository.NewPostRepository(db)
    followRepo := repository.NewFollowRepository(db)
    inboxRepo := repository.NewInboxRepository(db)
    outboxRepo := repository.NewOutboxRepository(db)

    timeline := cache.NewTimeline(rdb, cfg.Feed.MaxFeedSize, cfg.Feed.CacheTTLDuration())

    fanout := service.NewFanoutService(cfg.Feed, followRepo, inboxRepo, outboxRepo, timeline)
    dispatcher := service.NewDispatcher(fanout, cfg.Dispatch.Workers, cfg.Dispatch.QueueSize)
    dispatcher.Start()

    userService := service.NewUserService(userRepo, cfg.JWT)
    postService := service.NewPostService(db, postRepo, rdb, timeline, dispatcher)
    feedService := service.NewFeedService(cfg.Feed, postRepo, inboxRepo, followRepo, timeline)
    relService := service.NewRelationshipService(followRepo, userRepo, rdb)

    h := handler.New(userService, postService, feedService, relService)
    engine := router.New(cfg, h)

    srv := &http.Server{
        Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
        Handler: engine,
    }
    go func() {
        logger.Info("server started", zap.Int("port", cfg.Server.Port))
        if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
            logger.Error("server error", zap.Error(err))
            stop()
        }
    }()

    <-ctx.Done()
    logger.Info("shutting down")

    shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
    defer cancel()
    if err := srv.Shutdown(shutdownCtx); err != nil {
        logger.Warn("http shutdown", zap.Error(err))
    }
    // 先停HTTP再停分发器：排空在途扇出任务
    if err := dispatcher.Stop(shutdownCtx); err != nil {
        logger.Warn("dispatcher drain timeout", zap.Error(err))
    }
    _ = rdb.Close()
}
