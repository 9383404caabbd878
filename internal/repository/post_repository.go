package repository

import (
    "context"
    "time"

    "gorm.io/gorm"

    "github.com/d60-Lab/feed-stream/internal/model"
)

type PostRepository interface {
    Create(ctx context.Context, tx *gorm.DB, post *model.Post) error
    GetByID(ctx context.Context, postID int64) (*model.Post, error)
    // ListByIDs 批量查询已发布内容，顺序由调用方按ID列表自行还原
    ListByIDs(ctx context.Context, postIDs []int64) ([]*model.Post, error)
    // LatestByAuthors 跨作者拉取最新已发布内容（拉模式回源，单条批量查询）；
    // before 非空时只取创建时间早于该时刻的内容
    LatestByAuthors(ctx context.Context, authorIDs []int64, before *time.Time, limit int) ([]*model.Post, error)
    // ListPublished 全量已发布内容（热门榜兜底，仅适用于有界语料）
    ListPublished(ctx context.Context) ([]*model.Post, error)
    IncrLikeCount(ctx context.Context, postID int64, delta int) error
    IncrViewCount(ctx context.Context, postID int64) error
}

type postRepository struct{ db *gorm.DB }

func NewPostRepository(db *gorm.DB) PostRepository { return &postRepository{db: db} }

// Create 支持外部事务：tx 非空时在事务内落库
func (r *postRepository) Create(ctx context.Context, tx *gorm.DB, post *model.Post) error {
    db := r.db
    if tx != nil {
        db = tx
    }
    return db.WithContext(ctx).Create(post).Error
}

func (r *postRepository) GetByID(ctx context.Context, postID int64) (*model.Post, error) {
    var post model.Post
    err := r.db.WithContext(ctx).Where("id = ?", postID).First(&post).Error
    if err != nil {
        return nil, err
    }
    return &post, nil
}

func (r *postRepository) ListByIDs(ctx context.Context, postIDs []int64) ([]*model.Post, error) {
    if len(postIDs) == 0 {
        return nil, nil
    }
    var posts []*model.Post
    err := r.db.WithContext(ctx).
        Where("id IN ? AND status = ?", postIDs, model.PostStatusPublished).
        Find(&posts).Error
    return posts, err
}

func (r *postRepository) LatestByAuthors(ctx context.Context, authorIDs []int64, before *time.Time, limit int) ([]*model.Post, error) {
    if len(authorIDs) == 0 {
        return nil, nil
    }
    q := r.db.WithContext(ctx).
        Where("author_id IN ? AND status = ?", authorIDs, model.PostStatusPublished)
    if before != nil {
        q = q.Where("created_at < ?", *before)
    }
    var posts []*model.Post
    err := q.Order("created_at DESC, id DESC").
        Limit(limit).
        Find(&posts).Error
    return posts, err
}

func (r *postRepository) ListPublished(ctx context.Context) ([]*model.Post, error) {
    var posts []*model.Post
    err := r.db.WithContext(ctx).
        Where("status = ?", model.PostStatusPublished).
        Find(&posts).Error
    return posts, err
}

func (r *postRepository) IncrLikeCount(ctx context.Context, postID int64, delta int) error {
    return r.db.WithContext(ctx).
        Model(&model.Post{}).
        Where("id = ?", postID).
        UpdateColumn("like_count", gorm.Expr("like_count + ?", delta)).Error
}

func (r *postRepository) IncrViewCount(ctx context.Context, postID int64) error {
    return r.db.WithContext(ctx).
        Model(&model.Post{}).
        Where("id = ?", postID).
        UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}
