package repository

import (
    "context"

    "gorm.io/gorm"
    "gorm.io/gorm/clause"

    "github.com/d60-Lab/feed-stream/internal/model"
)

// inboxInsertBatch 单次批量插入上限，限制单条 SQL 体积
const inboxInsertBatch = 1000

type InboxRepository interface {
    // CreateInBatches 分批落库，重复 (user, post) 幂等忽略
    CreateInBatches(ctx context.Context, entries []model.FeedInbox) error
    // ListByUser 按自增ID倒序翻页；maxEntryID 非空时取 id < maxEntryID
    ListByUser(ctx context.Context, userID int64, maxEntryID *int64, limit int) ([]*model.FeedInbox, error)
    // GetByUserPost 游标换算：由 (user, post) 定位收件箱行
    GetByUserPost(ctx context.Context, userID, postID int64) (*model.FeedInbox, error)
    CountByUser(ctx context.Context, userID int64) (int64, error)
    CountByPost(ctx context.Context, postID int64) (int64, error)
}

type inboxRepository struct{ db *gorm.DB }

func NewInboxRepository(db *gorm.DB) InboxRepository { return &inboxRepository{db: db} }

func (r *inboxRepository) CreateInBatches(ctx context.Context, entries []model.FeedInbox) error {
    if len(entries) == 0 {
        return nil
    }
    return r.db.WithContext(ctx).
        Clauses(clause.OnConflict{DoNothing: true}).
        CreateInBatches(entries, inboxInsertBatch).Error
}

func (r *inboxRepository) ListByUser(ctx context.Context, userID int64, maxEntryID *int64, limit int) ([]*model.FeedInbox, error) {
    q := r.db.WithContext(ctx).Where("user_id = ?", userID)
    if maxEntryID != nil {
        q = q.Where("id < ?", *maxEntryID)
    }
    var rows []*model.FeedInbox
    err := q.Order("id DESC").Limit(limit).Find(&rows).Error
    return rows, err
}

func (r *inboxRepository) GetByUserPost(ctx context.Context, userID, postID int64) (*model.FeedInbox, error) {
    var row model.FeedInbox
    err := r.db.WithContext(ctx).
        Where("user_id = ? AND post_id = ?", userID, postID).
        First(&row).Error
    if err != nil {
        return nil, err
    }
    return &row, nil
}

func (r *inboxRepository) CountByUser(ctx context.Context, userID int64) (int64, error) {
    var cnt int64
    err := r.db.WithContext(ctx).
        Model(&model.FeedInbox{}).
        Where("user_id = ?", userID).
        Count(&cnt).Error
    return cnt, err
}

func (r *inboxRepository) CountByPost(ctx context.Context, postID int64) (int64, error) {
    var cnt int64
    err := r.db.WithContext(ctx).
        Model(&model.FeedInbox{}).
        Where("post_id = ?", postID).
        Count(&cnt).Error
    return cnt, err
}
