package service

import (
    "context"
    "time"

    "go.uber.org/zap"

    "github.com/d60-Lab/feed-stream/config"
    "github.com/d60-Lab/feed-stream/internal/cache"
    "github.com/d60-Lab/feed-stream/internal/model"
    "github.com/d60-Lab/feed-stream/internal/repository"
    "github.com/d60-Lab/feed-stream/pkg/logger"
)

// FanoutService 按粉丝规模混合分发：推给收件箱、写入发件箱或双写。
// 内容发布已先行提交，分发属于事后补偿路径，任何失败只记日志不回传。
type FanoutService struct {
    cfg        config.FeedConfig
    followRepo repository.FollowRepository
    inboxRepo  repository.InboxRepository
    outboxRepo repository.OutboxRepository
    timeline   *cache.Timeline
}

func NewFanoutService(
    cfg config.FeedConfig,
    followRepo repository.FollowRepository,
    inboxRepo repository.InboxRepository,
    outboxRepo repository.OutboxRepository,
    timeline *cache.Timeline,
) *FanoutService {
    return &FanoutService{
        cfg:        cfg,
        followRepo: followRepo,
        inboxRepo:  inboxRepo,
        outboxRepo: outboxRepo,
        timeline:   timeline,
    }
}

// Dispatch 分发一条已发布内容。粉丝数取实时值，
// 作者刚跨过阈值时下一条内容即走新路由。
func (s *FanoutService) Dispatch(ctx context.Context, post *model.Post) {
    count, err := s.followRepo.CountFollowers(ctx, post.AuthorID)
    if err != nil {
        logger.Error("count followers failed, skip dispatch",
            zap.Int64("post", post.ID), zap.Int64("author", post.AuthorID), zap.Error(err))
        return
    }

    mode := DecideFanoutMode(count, s.cfg.PushFanThreshold, s.cfg.PullFanThreshold)
    logger.Info("dispatch feed",
        zap.Int64("post", post.ID), zap.Int64("author", post.AuthorID),
        zap.Int64("followers", count), zap.String("mode", mode.String()))

    switch mode {
    case FanoutPush:
        s.dispatchPush(ctx, post)
    case FanoutPull:
        s.dispatchPull(ctx, post)
    case FanoutHybrid:
        // 双写，读取端按内容ID去重
        s.dispatchPush(ctx, post)
        s.dispatchPull(ctx, post)
    }
}

// dispatchPush 推模式：收件箱分批落库 + 逐个粉丝写时间线缓存
func (s *FanoutService) dispatchPush(ctx context.Context, post *model.Post) {
    followerIDs, err := s.followRepo.ActiveFollowerIDs(ctx, post.AuthorID)
    if err != nil {
        logger.Error("load active followers failed",
            zap.Int64("author", post.AuthorID), zap.Error(err))
        return
    }
    if len(followerIDs) == 0 {
        logger.Info("no active followers, skip push", zap.Int64("author", post.AuthorID))
        return
    }

    score := post.PublishScore()
    now := time.Now()
    entries := make([]model.FeedInbox, 0, len(followerIDs))
    for _, fid := range followerIDs {
        entries = append(entries, model.FeedInbox{
            UserID:    fid,
            PostID:    post.ID,
            AuthorID:  post.AuthorID,
            Score:     score,
            CreatedAt: now,
        })
    }
    // 持久化与缓存互相独立：落库失败不阻断缓存写入，反之亦然
    if err := s.inboxRepo.CreateInBatches(ctx, entries); err != nil {
        logger.Error("insert inbox entries failed",
            zap.Int64("post", post.ID), zap.Int("followers", len(followerIDs)), zap.Error(err))
    }

    for _, fid := range followerIDs {
        if err := s.timeline.Add(ctx, cache.UserFeedKey(fid), post.ID, score); err != nil {
            // 单个粉丝的缓存失败不影响其余粉丝
            logger.Warn("push timeline cache failed",
                zap.Int64("user", fid), zap.Int64("post", post.ID), zap.Error(err))
        }
    }

    logger.Info("push fanout done",
        zap.Int64("post", post.ID), zap.Int("followers", len(followerIDs)))
}

// dispatchPull 拉模式：发件箱落库 + 写作者发件箱缓存
func (s *FanoutService) dispatchPull(ctx context.Context, post *model.Post) {
    score := post.PublishScore()
    entry := &model.FeedOutbox{
        AuthorID:  post.AuthorID,
        PostID:    post.ID,
        Score:     score,
        CreatedAt: time.Now(),
    }
    if err := s.outboxRepo.Create(ctx, entry); err != nil {
        logger.Error("insert outbox entry failed",
            zap.Int64("post", post.ID), zap.Int64("author", post.AuthorID), zap.Error(err))
    }

    if err := s.timeline.Add(ctx, cache.UserOutboxKey(post.AuthorID), post.ID, score); err != nil {
        logger.Warn("outbox cache failed",
            zap.Int64("author", post.AuthorID), zap.Int64("post", post.ID), zap.Error(err))
    }
}
