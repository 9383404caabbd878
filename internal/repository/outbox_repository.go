package repository

import (
    "context"

    "gorm.io/gorm"
    "gorm.io/gorm/clause"

    "github.com/d60-Lab/feed-stream/internal/model"
)

type OutboxRepository interface {
    Create(ctx context.Context, entry *model.FeedOutbox) error
    ListByAuthor(ctx context.Context, authorID int64, limit int) ([]*model.FeedOutbox, error)
    CountByAuthor(ctx context.Context, authorID int64) (int64, error)
}

type outboxRepository struct{ db *gorm.DB }

func NewOutboxRepository(db *gorm.DB) OutboxRepository { return &outboxRepository{db: db} }

func (r *outboxRepository) Create(ctx context.Context, entry *model.FeedOutbox) error {
    // post_id 唯一，重复分发幂等忽略
    return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(entry).Error
}

func (r *outboxRepository) ListByAuthor(ctx context.Context, authorID int64, limit int) ([]*model.FeedOutbox, error) {
    var rows []*model.FeedOutbox
    err := r.db.WithContext(ctx).
        Where("author_id = ?", authorID).
        Order("created_at DESC").
        Limit(limit).
        Find(&rows).Error
    return rows, err
}

func (r *outboxRepository) CountByAuthor(ctx context.Context, authorID int64) (int64, error) {
    var cnt int64
    err := r.db.WithContext(ctx).
        Model(&model.FeedOutbox{}).
        Where("author_id = ?", authorID).
        Count(&cnt).Error
    return cnt, err
}
