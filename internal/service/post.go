package service

import (
    "context"
    "encoding/json"
    "errors"
    "time"

    "github.com/redis/go-redis/v9"
    "go.uber.org/zap"
    "gorm.io/gorm"

    "github.com/d60-Lab/feed-stream/internal/cache"
    "github.com/d60-Lab/feed-stream/internal/model"
    "github.com/d60-Lab/feed-stream/internal/repository"
    "github.com/d60-Lab/feed-stream/pkg/logger"
)

var ErrPostNotFound = errors.New("post not found")

// postInfoTTL 内容详情缓存时长
const postInfoTTL = time.Hour

// PostService 内容服务
type PostService interface {
    // Publish 发布内容：事务内落库并累加作者发帖数，随后异步分发
    Publish(ctx context.Context, post *model.Post) (int64, error)
    GetByID(ctx context.Context, postID int64) (*model.Post, error)
    Like(ctx context.Context, postID int64) error
}

type postService struct {
    db         *gorm.DB
    postRepo   repository.PostRepository
    rdb        *redis.Client
    hot        *cache.Timeline
    dispatcher *Dispatcher
}

func NewPostService(
    db *gorm.DB,
    postRepo repository.PostRepository,
    rdb *redis.Client,
    hot *cache.Timeline,
    dispatcher *Dispatcher,
) PostService {
    return &postService{db: db, postRepo: postRepo, rdb: rdb, hot: hot, dispatcher: dispatcher}
}

func (s *postService) Publish(ctx context.Context, post *model.Post) (int64, error) {
    post.Status = model.PostStatusPublished
    now := time.Now()
    post.CreatedAt = now
    post.UpdatedAt = now

    err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
        if err := s.postRepo.Create(ctx, tx, post); err != nil {
            return err
        }
        return tx.Model(&model.User{}).
            Where("id = ?", post.AuthorID).
            UpdateColumn("post_count", gorm.Expr("post_count + 1")).Error
    })
    if err != nil {
        return 0, err
    }

    // 分发摘出关键路径：发布延迟与粉丝规模无关。
    // 进程在提交与分发之间崩溃会丢掉这次扇出（已知限制）。
    s.dispatcher.Submit(post)

    s.cachePostInfo(ctx, post)
    logger.Info("post published", zap.Int64("post", post.ID), zap.Int64("author", post.AuthorID))
    return post.ID, nil
}

// GetByID cache-aside：命中直接返回，未命中回源并回填
func (s *postService) GetByID(ctx context.Context, postID int64) (*model.Post, error) {
    key := cache.PostInfoKey(postID)
    if data, err := s.rdb.Get(ctx, key).Bytes(); err == nil {
        var post model.Post
        if uErr := json.Unmarshal(data, &post); uErr == nil {
            if err := s.postRepo.IncrViewCount(ctx, postID); err != nil {
                logger.Warn("incr view count failed", zap.Int64("post", postID), zap.Error(err))
            }
            return &post, nil
        }
    }

    post, err := s.postRepo.GetByID(ctx, postID)
    if errors.Is(err, gorm.ErrRecordNotFound) {
        return nil, ErrPostNotFound
    }
    if err != nil {
        return nil, err
    }
    s.cachePostInfo(ctx, post)
    if err := s.postRepo.IncrViewCount(ctx, postID); err != nil {
        logger.Warn("incr view count failed", zap.Int64("post", postID), zap.Error(err))
    }
    return post, nil
}

func (s *postService) Like(ctx context.Context, postID int64) error {
    if err := s.postRepo.IncrLikeCount(ctx, postID, 1); err != nil {
        return err
    }
    // 热门榜计数与详情缓存失效均为尽力而为
    if err := s.hot.IncrScore(ctx, cache.HotPostsKey(), postID, 1); err != nil {
        logger.Warn("incr hot score failed", zap.Int64("post", postID), zap.Error(err))
    }
    if err := s.rdb.Del(ctx, cache.PostInfoKey(postID)).Err(); err != nil {
        logger.Warn("evict post cache failed", zap.Int64("post", postID), zap.Error(err))
    }
    return nil
}

func (s *postService) cachePostInfo(ctx context.Context, post *model.Post) {
    payload, err := json.Marshal(post)
    if err != nil {
        return
    }
    if err := s.rdb.Set(ctx, cache.PostInfoKey(post.ID), payload, postInfoTTL).Err(); err != nil {
        logger.Warn("cache post info failed", zap.Int64("post", post.ID), zap.Error(err))
    }
}
