package repository

import (
    "context"

    "github.com/google/uuid"
    "gorm.io/gorm"
    "gorm.io/gorm/clause"

    "github.com/d60-Lab/feed-stream/internal/model"
)

type FollowRepository interface {
    Create(ctx context.Context, followerID, followeeID int64) error
    Delete(ctx context.Context, followerID, followeeID int64) error
    Exists(ctx context.Context, followerID, followeeID int64) (bool, error)
    // CountFollowers 实时粉丝数，分发路由必须用实时值而非缓存快照
    CountFollowers(ctx context.Context, userID int64) (int64, error)
    FollowerIDs(ctx context.Context, userID int64) ([]int64, error)
    // ActiveFollowerIDs 活跃粉丝ID，推模式只投递给活跃粉丝
    ActiveFollowerIDs(ctx context.Context, userID int64) ([]int64, error)
    FolloweeIDs(ctx context.Context, userID int64) ([]int64, error)
}

type followRepository struct {
    db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) FollowRepository { return &followRepository{db: db} }

func (r *followRepository) Create(ctx context.Context, followerID, followeeID int64) error {
    f := &model.Follow{ID: uuid.New().String(), FollowerID: followerID, FolloweeID: followeeID}
    // 幂等：重复关注不报错
    return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(f).Error
}

func (r *followRepository) Delete(ctx context.Context, followerID, followeeID int64) error {
    return r.db.WithContext(ctx).
        Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
        Delete(&model.Follow{}).Error
}

func (r *followRepository) Exists(ctx context.Context, followerID, followeeID int64) (bool, error) {
    var cnt int64
    if err := r.db.WithContext(ctx).
        Model(&model.Follow{}).
        Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
        Count(&cnt).Error; err != nil {
        return false, err
    }
    return cnt > 0, nil
}

func (r *followRepository) CountFollowers(ctx context.Context, userID int64) (int64, error) {
    var cnt int64
    err := r.db.WithContext(ctx).
        Model(&model.Follow{}).
        Where("followee_id = ?", userID).
        Count(&cnt).Error
    return cnt, err
}

func (r *followRepository) FollowerIDs(ctx context.Context, userID int64) ([]int64, error) {
    var ids []int64
    err := r.db.WithContext(ctx).
        Model(&model.Follow{}).
        Select("follower_id").
        Where("followee_id = ?", userID).
        Order("created_at").
        Scan(&ids).Error
    return ids, err
}

func (r *followRepository) ActiveFollowerIDs(ctx context.Context, userID int64) ([]int64, error) {
    var ids []int64
    err := r.db.WithContext(ctx).
        Table("follows").
        Select("follows.follower_id").
        Joins("JOIN users ON users.id = follows.follower_id").
        Where("follows.followee_id = ? AND users.is_active = ?", userID, true).
        Order("follows.created_at").
        Scan(&ids).Error
    return ids, err
}

func (r *followRepository) FolloweeIDs(ctx context.Context, userID int64) ([]int64, error) {
    var ids []int64
    err := r.db.WithContext(ctx).
        Model(&model.Follow{}).
        Select("followee_id").
        Where("follower_id = ?", userID).
        Scan(&ids).Error
    return ids, err
}
