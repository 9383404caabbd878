package service

import (
    "context"
    "errors"
    "time"

    "github.com/redis/go-redis/v9"
    "go.uber.org/zap"
    "gorm.io/gorm"

    "github.com/d60-Lab/feed-stream/internal/cache"
    "github.com/d60-Lab/feed-stream/internal/repository"
    "github.com/d60-Lab/feed-stream/pkg/logger"
)

var (
    ErrFollowSelf      = errors.New("cannot follow self")
    ErrAlreadyFollowed = errors.New("already followed")
    ErrNotFollowed     = errors.New("not followed")
    ErrUserNotFound    = errors.New("user not found")
)

// followSetTTL 粉丝/关注集合缓存时长
const followSetTTL = time.Hour

// RelationshipService 关系链服务，对分发与回源提供粉丝/关注集合
type RelationshipService interface {
    Follow(ctx context.Context, followerID, followeeID int64) error
    Unfollow(ctx context.Context, followerID, followeeID int64) error
    IsFollowing(ctx context.Context, followerID, followeeID int64) (bool, error)
    FollowerIDs(ctx context.Context, userID int64) ([]int64, error)
    FolloweeIDs(ctx context.Context, userID int64) ([]int64, error)
}

type relationshipService struct {
    followRepo repository.FollowRepository
    userRepo   repository.UserRepository
    rdb        *redis.Client
}

func NewRelationshipService(
    followRepo repository.FollowRepository,
    userRepo repository.UserRepository,
    rdb *redis.Client,
) RelationshipService {
    return &relationshipService{followRepo: followRepo, userRepo: userRepo, rdb: rdb}
}

func (s *relationshipService) Follow(ctx context.Context, followerID, followeeID int64) error {
    if followerID == followeeID {
        return ErrFollowSelf
    }
    if _, err := s.userRepo.GetByID(ctx, followeeID); err != nil {
        if errors.Is(err, gorm.ErrRecordNotFound) {
            return ErrUserNotFound
        }
        return err
    }
    exists, err := s.followRepo.Exists(ctx, followerID, followeeID)
    if err != nil {
        return err
    }
    if exists {
        return ErrAlreadyFollowed
    }

    if err := s.followRepo.Create(ctx, followerID, followeeID); err != nil {
        return err
    }
    if err := s.userRepo.IncrFollowerCount(ctx, followeeID, 1); err != nil {
        logger.Warn("incr follower count failed", zap.Int64("user", followeeID), zap.Error(err))
    }
    if err := s.userRepo.IncrFollowingCount(ctx, followerID, 1); err != nil {
        logger.Warn("incr following count failed", zap.Int64("user", followerID), zap.Error(err))
    }
    s.updateFollowCache(ctx, followerID, followeeID, true)
    return nil
}

func (s *relationshipService) Unfollow(ctx context.Context, followerID, followeeID int64) error {
    exists, err := s.followRepo.Exists(ctx, followerID, followeeID)
    if err != nil {
        return err
    }
    if !exists {
        return ErrNotFollowed
    }

    if err := s.followRepo.Delete(ctx, followerID, followeeID); err != nil {
        return err
    }
    if err := s.userRepo.IncrFollowerCount(ctx, followeeID, -1); err != nil {
        logger.Warn("decr follower count failed", zap.Int64("user", followeeID), zap.Error(err))
    }
    if err := s.userRepo.IncrFollowingCount(ctx, followerID, -1); err != nil {
        logger.Warn("decr following count failed", zap.Int64("user", followerID), zap.Error(err))
    }
    s.updateFollowCache(ctx, followerID, followeeID, false)
    return nil
}

func (s *relationshipService) IsFollowing(ctx context.Context, followerID, followeeID int64) (bool, error) {
    return s.followRepo.Exists(ctx, followerID, followeeID)
}

// FollowerIDs 粉丝集合，Set 缓存 + 回源
func (s *relationshipService) FollowerIDs(ctx context.Context, userID int64) ([]int64, error) {
    ids, err := s.followRepo.FollowerIDs(ctx, userID)
    if err != nil {
        return nil, err
    }
    s.cacheIDSet(ctx, cache.FollowerSetKey(userID), ids)
    return ids, nil
}

func (s *relationshipService) FolloweeIDs(ctx context.Context, userID int64) ([]int64, error) {
    ids, err := s.followRepo.FolloweeIDs(ctx, userID)
    if err != nil {
        return nil, err
    }
    s.cacheIDSet(ctx, cache.FollowingSetKey(userID), ids)
    return ids, nil
}

func (s *relationshipService) updateFollowCache(ctx context.Context, followerID, followeeID int64, follow bool) {
    followersKey := cache.FollowerSetKey(followeeID)
    followingKey := cache.FollowingSetKey(followerID)

    pipe := s.rdb.Pipeline()
    if follow {
        pipe.SAdd(ctx, followersKey, followerID)
        pipe.SAdd(ctx, followingKey, followeeID)
    } else {
        pipe.SRem(ctx, followersKey, followerID)
        pipe.SRem(ctx, followingKey, followeeID)
    }
    pipe.Expire(ctx, followersKey, followSetTTL)
    pipe.Expire(ctx, followingKey, followSetTTL)
    if _, err := pipe.Exec(ctx); err != nil {
        logger.Warn("update follow cache failed",
            zap.Int64("follower", followerID), zap.Int64("followee", followeeID), zap.Error(err))
    }
}

func (s *relationshipService) cacheIDSet(ctx context.Context, key string, ids []int64) {
    if len(ids) == 0 {
        return
    }
    members := make([]interface{}, len(ids))
    for i, id := range ids {
        members[i] = id
    }
    pipe := s.rdb.Pipeline()
    pipe.SAdd(ctx, key, members...)
    pipe.Expire(ctx, key, followSetTTL)
    if _, err := pipe.Exec(ctx); err != nil {
        logger.Warn("cache id set failed", zap.String("key", key), zap.Error(err))
    }
}
