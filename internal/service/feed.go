package service

import (
    "context"
    "errors"
    "fmt"
    "sort"
    "time"

    "go.uber.org/zap"
    "gorm.io/gorm"

    "github.com/d60-Lab/feed-stream/config"
    "github.com/d60-Lab/feed-stream/internal/cache"
    "github.com/d60-Lab/feed-stream/internal/model"
    "github.com/d60-Lab/feed-stream/internal/repository"
    "github.com/d60-Lab/feed-stream/pkg/logger"
)

// ErrFeedLoadFailed 末级读取失败，区别于合法的空结果
var ErrFeedLoadFailed = errors.New("feed load failed")

// FeedPage 时间线分页结果，游标为最后一条内容ID
type FeedPage struct {
    Posts      []*model.Post
    NextCursor *int64
    HasNext    bool
}

// TrendingPage 热门榜分页结果（偏移分页）
type TrendingPage struct {
    Posts    []*model.Post
    Total    int64
    Page     int
    PageSize int
    HasNext  bool
}

// FeedService 时间线读取：缓存 → 持久收件箱 → 拉模式回源 三级降级。
// 上一级完全为空才落到下一级；短页不向下补齐。
type FeedService interface {
    GetUserFeed(ctx context.Context, userID int64, cursor *int64, pageSize int) (*FeedPage, error)
    GetTrendingFeed(ctx context.Context, page, pageSize int) (*TrendingPage, error)
    RefreshUserFeedCache(ctx context.Context, userID int64) error
}

type feedService struct {
    cfg        config.FeedConfig
    postRepo   repository.PostRepository
    inboxRepo  repository.InboxRepository
    followRepo repository.FollowRepository
    timeline   *cache.Timeline
}

func NewFeedService(
    cfg config.FeedConfig,
    postRepo repository.PostRepository,
    inboxRepo repository.InboxRepository,
    followRepo repository.FollowRepository,
    timeline *cache.Timeline,
) FeedService {
    return &feedService{
        cfg:        cfg,
        postRepo:   postRepo,
        inboxRepo:  inboxRepo,
        followRepo: followRepo,
        timeline:   timeline,
    }
}

func (s *feedService) GetUserFeed(ctx context.Context, userID int64, cursor *int64, pageSize int) (*FeedPage, error) {
    if pageSize <= 0 {
        pageSize = s.cfg.PageSize
    }

    // 第一级：有界有序缓存
    postIDs := s.feedFromCache(ctx, userID, cursor, pageSize)

    // 第二级：持久收件箱
    if len(postIDs) == 0 {
        postIDs = s.feedFromInbox(ctx, userID, cursor, pageSize)
    }

    var posts []*model.Post
    var err error
    if len(postIDs) == 0 {
        // 第三级：跨作者回源，最后一级失败直接上抛
        posts, err = s.feedFromFollowees(ctx, userID, cursor, pageSize)
        if err != nil {
            return nil, fmt.Errorf("%w: %v", ErrFeedLoadFailed, err)
        }
    } else {
        posts, err = s.resolvePosts(ctx, postIDs)
        if err != nil {
            return nil, fmt.Errorf("%w: %v", ErrFeedLoadFailed, err)
        }
    }

    hasNext := len(posts) >= pageSize
    var next *int64
    if hasNext && len(posts) > 0 {
        id := posts[len(posts)-1].ID
        next = &id
    }
    return &FeedPage{Posts: posts, NextCursor: next, HasNext: hasNext}, nil
}

// feedFromCache 缓存层读取。游标按 ZSet 成员反向排名定位；
// 游标成员不在缓存时视为未命中，降级到持久层。
// 缓存故障吞掉并降级，绝不上抛。
func (s *feedService) feedFromCache(ctx context.Context, userID int64, cursor *int64, pageSize int) []int64 {
    key := cache.UserFeedKey(userID)
    if cursor == nil {
        ids, err := s.timeline.Latest(ctx, key, int64(pageSize))
        if err != nil {
            logger.Warn("read timeline cache failed", zap.Int64("user", userID), zap.Error(err))
            return nil
        }
        return ids
    }
    ids, found, err := s.timeline.After(ctx, key, *cursor, int64(pageSize))
    if err != nil {
        logger.Warn("read timeline cache failed", zap.Int64("user", userID), zap.Error(err))
        return nil
    }
    if !found {
        return nil
    }
    return ids
}

// feedFromInbox 收件箱层读取。内容ID游标换算为该用户收件箱行的
// 自增ID后按 id < cursor 过滤；游标行不存在（游标产生于回源层）
// 时本层让位，由回源层按发布时间续页。
func (s *feedService) feedFromInbox(ctx context.Context, userID int64, cursor *int64, pageSize int) []int64 {
    var maxEntryID *int64
    if cursor != nil {
        row, err := s.inboxRepo.GetByUserPost(ctx, userID, *cursor)
        if errors.Is(err, gorm.ErrRecordNotFound) {
            return nil
        }
        if err != nil {
            logger.Warn("resolve inbox cursor failed", zap.Int64("user", userID), zap.Error(err))
            return nil
        }
        maxEntryID = &row.ID
    }

    rows, err := s.inboxRepo.ListByUser(ctx, userID, maxEntryID, pageSize)
    if err != nil {
        logger.Warn("read inbox failed", zap.Int64("user", userID), zap.Error(err))
        return nil
    }
    ids := make([]int64, 0, len(rows))
    for _, row := range rows {
        ids = append(ids, row.PostID)
    }
    return ids
}

// feedFromFollowees 回源层：取关注集合后单条批量查询各作者最新内容
func (s *feedService) feedFromFollowees(ctx context.Context, userID int64, cursor *int64, pageSize int) ([]*model.Post, error) {
    followeeIDs, err := s.followRepo.FolloweeIDs(ctx, userID)
    if err != nil {
        return nil, err
    }
    if len(followeeIDs) == 0 {
        return nil, nil
    }
    return s.postRepo.LatestByAuthors(ctx, followeeIDs, s.cursorCreatedAt(ctx, cursor), pageSize)
}

// cursorCreatedAt 回源层的游标界：取游标内容的创建时间；查不到则不设界
func (s *feedService) cursorCreatedAt(ctx context.Context, cursor *int64) *time.Time {
    if cursor == nil {
        return nil
    }
    post, err := s.postRepo.GetByID(ctx, *cursor)
    if err != nil {
        if !errors.Is(err, gorm.ErrRecordNotFound) {
            logger.Warn("resolve backfill cursor failed", zap.Error(err))
        }
        return nil
    }
    return &post.CreatedAt
}

// resolvePosts 单条批量查询内容详情，过滤未发布，并还原ID列表顺序
func (s *feedService) resolvePosts(ctx context.Context, postIDs []int64) ([]*model.Post, error) {
    rows, err := s.postRepo.ListByIDs(ctx, postIDs)
    if err != nil {
        return nil, err
    }
    byID := make(map[int64]*model.Post, len(rows))
    for _, p := range rows {
        byID[p.ID] = p
    }
    out := make([]*model.Post, 0, len(postIDs))
    for _, id := range postIDs {
        if p, ok := byID[id]; ok {
            out = append(out, p)
        }
    }
    return out, nil
}

// RefreshUserFeedCache 缓存修复：清空后从收件箱快照重建。
// score 取落库时记录的发布时间戳，无发布间隔的重复调用产生相同缓存。
func (s *feedService) RefreshUserFeedCache(ctx context.Context, userID int64) error {
    rows, err := s.inboxRepo.ListByUser(ctx, userID, nil, int(s.cfg.MaxFeedSize))
    if err != nil {
        return fmt.Errorf("reload inbox: %w", err)
    }
    entries := make([]cache.Entry, 0, len(rows))
    for _, row := range rows {
        entries = append(entries, cache.Entry{PostID: row.PostID, Score: row.Score})
    }
    if err := s.timeline.Rebuild(ctx, cache.UserFeedKey(userID), entries); err != nil {
        return fmt.Errorf("rebuild timeline cache: %w", err)
    }
    logger.Info("feed cache refreshed", zap.Int64("user", userID), zap.Int("entries", len(entries)))
    return nil
}

// GetTrendingFeed 热门榜：全局 ZSet 偏移分页；
// 缓存未命中退化为全量按点赞数内存排序（仅有界语料可用的兜底）。
func (s *feedService) GetTrendingFeed(ctx context.Context, page, pageSize int) (*TrendingPage, error) {
    if page < 1 {
        page = 1
    }
    if pageSize <= 0 {
        pageSize = s.cfg.PageSize
    }
    start := int64(page-1) * int64(pageSize)
    stop := start + int64(pageSize) - 1

    key := cache.HotPostsKey()
    ids, err := s.timeline.Range(ctx, key, start, stop)
    if err != nil {
        logger.Warn("read hot posts cache failed", zap.Error(err))
        ids = nil
    }
    if len(ids) > 0 {
        posts, err := s.resolvePosts(ctx, ids)
        if err != nil {
            return nil, fmt.Errorf("%w: %v", ErrFeedLoadFailed, err)
        }
        total, sizeErr := s.timeline.Size(ctx, key)
        if sizeErr != nil {
            total = start + int64(len(posts))
        }
        return &TrendingPage{
            Posts:    posts,
            Total:    total,
            Page:     page,
            PageSize: pageSize,
            HasNext:  start+int64(len(posts)) < total,
        }, nil
    }

    posts, err := s.postRepo.ListPublished(ctx)
    if err != nil {
        return nil, fmt.Errorf("%w: %v", ErrFeedLoadFailed, err)
    }
    sort.Slice(posts, func(i, j int) bool { return posts[i].LikeCount > posts[j].LikeCount })

    total := int64(len(posts))
    if start >= total {
        return &TrendingPage{Posts: nil, Total: total, Page: page, PageSize: pageSize, HasNext: false}, nil
    }
    end := start + int64(pageSize)
    if end > total {
        end = total
    }
    return &TrendingPage{
        Posts:    posts[start:end],
        Total:    total,
        Page:     page,
        PageSize: pageSize,
        HasNext:  end < total,
    }, nil
}
