package repository

import (
    "context"

    "gorm.io/gorm"

    "github.com/d60-Lab/feed-stream/internal/model"
)

type UserRepository interface {
    Create(ctx context.Context, user *model.User) error
    GetByID(ctx context.Context, userID int64) (*model.User, error)
    GetByUsername(ctx context.Context, username string) (*model.User, error)
    IncrPostCount(ctx context.Context, userID int64) error
    IncrFollowerCount(ctx context.Context, userID int64, delta int) error
    IncrFollowingCount(ctx context.Context, userID int64, delta int) error
}

type userRepository struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) UserRepository { return &userRepository{db: db} }

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
    return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, userID int64) (*model.User, error) {
    var user model.User
    err := r.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error
    if err != nil {
        return nil, err
    }
    return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
    var user model.User
    err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
    if err != nil {
        return nil, err
    }
    return &user, nil
}

func (r *userRepository) IncrPostCount(ctx context.Context, userID int64) error {
    return r.db.WithContext(ctx).
        Model(&model.User{}).
        Where("id = ?", userID).
        UpdateColumn("post_count", gorm.Expr("post_count + 1")).Error
}

func (r *userRepository) IncrFollowerCount(ctx context.Context, userID int64, delta int) error {
    return r.db.WithContext(ctx).
        Model(&model.User{}).
        Where("id = ?", userID).
        UpdateColumn("follower_count", gorm.Expr("follower_count + ?", delta)).Error
}

func (r *userRepository) IncrFollowingCount(ctx context.Context, userID int64, delta int) error {
    return r.db.WithContext(ctx).
        Model(&model.User{}).
        Where("id = ?", userID).
        UpdateColumn("following_count", gorm.Expr("following_count + ?", delta)).Error
}
