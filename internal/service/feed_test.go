package service

import (
    "context"
    "testing"
    "time"

    "github.com/redis/go-redis/v9"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/d60-Lab/feed-stream/internal/cache"
    "github.com/d60-Lab/feed-stream/internal/model"
)

// publishMany 以毫秒递增的发布时间落库 n 条并逐条分发
func (e *testEnv) publishMany(t *testing.T, author *model.User, n int) []*model.Post {
    t.Helper()
    ctx := context.Background()
    base := time.UnixMilli(1_700_000_000_000)
    posts := make([]*model.Post, n)
    for i := 0; i < n; i++ {
        posts[i] = e.publishAt(t, author, base.Add(time.Duration(i)*time.Millisecond))
        e.fanout.Dispatch(ctx, posts[i])
    }
    return posts
}

// 连续翻页不重不漏，自然终止
func TestGetUserFeedPagination(t *testing.T) {
    env := newTestEnv(t)
    ctx := context.Background()

    author := env.createUser(t, "alice", true)
    followers := env.createFollowers(t, author, 3)
    posts := env.publishMany(t, author, 7)
    reader := followers[0].ID

    var got []int64
    var cursor *int64
    pages := 0
    for {
        page, err := env.feed.GetUserFeed(ctx, reader, cursor, 3)
        require.NoError(t, err)
        for _, p := range page.Posts {
            got = append(got, p.ID)
        }
        pages++
        require.Less(t, pages, 10, "pagination did not terminate")
        if !page.HasNext {
            break
        }
        require.NotNil(t, page.NextCursor)
        cursor = page.NextCursor
    }

    require.Len(t, got, len(posts))
    seen := map[int64]bool{}
    for i, id := range got {
        assert.False(t, seen[id], "post %d returned twice", id)
        seen[id] = true
        // 新→旧：位置 i 对应倒数第 i+1 条发布
        assert.Equal(t, posts[len(posts)-1-i].ID, id)
    }
}

// 缓存层命中时不触达持久层
func TestGetUserFeedPrefersCacheTier(t *testing.T) {
    env := newTestEnv(t)
    ctx := context.Background()

    author := env.createUser(t, "bob", true)
    followers := env.createFollowers(t, author, 1)
    posts := env.publishMany(t, author, 3)
    reader := followers[0].ID

    // 清掉收件箱：缓存仍应独立供页
    require.NoError(t, env.db.Where("user_id = ?", reader).Delete(&model.FeedInbox{}).Error)

    page, err := env.feed.GetUserFeed(ctx, reader, nil, 20)
    require.NoError(t, err)
    require.Len(t, page.Posts, 3)
    assert.Equal(t, posts[2].ID, page.Posts[0].ID)
}

// 缓存整体失效后降级到收件箱
func TestGetUserFeedFallsBackToInbox(t *testing.T) {
    env := newTestEnv(t)
    ctx := context.Background()

    author := env.createUser(t, "carol", true)
    followers := env.createFollowers(t, author, 1)
    posts := env.publishMany(t, author, 4)
    reader := followers[0].ID

    env.mr.FlushAll()

    page, err := env.feed.GetUserFeed(ctx, reader, nil, 20)
    require.NoError(t, err)
    require.Len(t, page.Posts, 4)
    assert.Equal(t, posts[3].ID, page.Posts[0].ID)
}

// 第一页出自缓存、缓存随即失效：游标在收件箱中继续定位
func TestGetUserFeedCursorSurvivesCacheLoss(t *testing.T) {
    env := newTestEnv(t)
    ctx := context.Background()

    author := env.createUser(t, "dave", true)
    followers := env.createFollowers(t, author, 1)
    posts := env.publishMany(t, author, 6)
    reader := followers[0].ID

    first, err := env.feed.GetUserFeed(ctx, reader, nil, 3)
    require.NoError(t, err)
    require.Len(t, first.Posts, 3)
    require.NotNil(t, first.NextCursor)

    env.mr.FlushAll()

    second, err := env.feed.GetUserFeed(ctx, reader, first.NextCursor, 3)
    require.NoError(t, err)
    require.Len(t, second.Posts, 3)
    assert.Equal(t, posts[2].ID, second.Posts[0].ID)
    assert.Equal(t, posts[1].ID, second.Posts[1].ID)
    assert.Equal(t, posts[0].ID, second.Posts[2].ID)
}

// 缓存与收件箱皆空：回源层按关注集合跨作者取最新
func TestGetUserFeedBackfillTier(t *testing.T) {
    env := newTestEnv(t)
    ctx := context.Background()

    a := env.createUser(t, "writer_a", true)
    b := env.createUser(t, "writer_b", true)
    reader := env.createUser(t, "reader", true)
    require.NoError(t, env.followRepo.Create(ctx, reader.ID, a.ID))
    require.NoError(t, env.followRepo.Create(ctx, reader.ID, b.ID))

    // 只落库不分发，模拟拉模式作者
    base := time.UnixMilli(1_700_000_000_000)
    p1 := env.publishAt(t, a, base)
    p2 := env.publishAt(t, b, base.Add(time.Millisecond))
    p3 := env.publishAt(t, a, base.Add(2*time.Millisecond))

    page, err := env.feed.GetUserFeed(ctx, reader.ID, nil, 2)
    require.NoError(t, err)
    require.Len(t, page.Posts, 2)
    assert.Equal(t, p3.ID, page.Posts[0].ID)
    assert.Equal(t, p2.ID, page.Posts[1].ID)
    assert.True(t, page.HasNext)

    next, err := env.feed.GetUserFeed(ctx, reader.ID, page.NextCursor, 2)
    require.NoError(t, err)
    require.Len(t, next.Posts, 1)
    assert.Equal(t, p1.ID, next.Posts[0].ID)
    assert.False(t, next.HasNext)
}

// 空Feed是合法结果，不是错误
func TestGetUserFeedEmptyIsNotError(t *testing.T) {
    env := newTestEnv(t)
    ctx := context.Background()

    u := env.createUser(t, "newcomer", true)
    page, err := env.feed.GetUserFeed(ctx, u.ID, nil, 20)
    require.NoError(t, err)
    assert.Empty(t, page.Posts)
    assert.False(t, page.HasNext)
    assert.Nil(t, page.NextCursor)
}

// 已删除内容在读取端被过滤
func TestGetUserFeedFiltersUnpublished(t *testing.T) {
    env := newTestEnv(t)
    ctx := context.Background()

    author := env.createUser(t, "eve", true)
    followers := env.createFollowers(t, author, 1)
    posts := env.publishMany(t, author, 3)
    reader := followers[0].ID

    require.NoError(t, env.db.Model(&model.Post{}).
        Where("id = ?", posts[1].ID).
        Update("status", model.PostStatusDeleted).Error)

    page, err := env.feed.GetUserFeed(ctx, reader, nil, 20)
    require.NoError(t, err)
    require.Len(t, page.Posts, 2)
    for _, p := range page.Posts {
        assert.NotEqual(t, posts[1].ID, p.ID)
    }
}

// 缓存修复：重建使用落库时的发布时间戳，重复执行产生相同快照
func TestRefreshUserFeedCacheIdempotent(t *testing.T) {
    env := newTestEnv(t)
    ctx := context.Background()

    author := env.createUser(t, "frank", true)
    followers := env.createFollowers(t, author, 1)
    env.publishMany(t, author, 5)
    reader := followers[0].ID
    key := cache.UserFeedKey(reader)

    // 污染缓存后修复
    require.NoError(t, env.rdb.ZAdd(ctx, key, redis.Z{Score: 999999, Member: "999999"}).Err())
    require.NoError(t, env.feed.RefreshUserFeedCache(ctx, reader))
    first, err := env.rdb.ZRangeWithScores(ctx, key, 0, -1).Result()
    require.NoError(t, err)
    require.Len(t, first, 5)

    require.NoError(t, env.feed.RefreshUserFeedCache(ctx, reader))
    second, err := env.rdb.ZRangeWithScores(ctx, key, 0, -1).Result()
    require.NoError(t, err)
    assert.Equal(t, first, second)
}

// 热门榜：缓存未命中时按点赞数兜底排序
func TestGetTrendingFallbackByLikes(t *testing.T) {
    env := newTestEnv(t)
    ctx := context.Background()

    author := env.createUser(t, "grace", true)
    likes := []int64{5, 42, 17}
    ids := make([]int64, len(likes))
    for i, n := range likes {
        p := env.publishAt(t, author, time.Now())
        require.NoError(t, env.db.Model(&model.Post{}).
            Where("id = ?", p.ID).Update("like_count", n).Error)
        ids[i] = p.ID
    }

    page, err := env.feed.GetTrendingFeed(ctx, 1, 2)
    require.NoError(t, err)
    require.Len(t, page.Posts, 2)
    assert.Equal(t, ids[1], page.Posts[0].ID) // 42
    assert.Equal(t, ids[2], page.Posts[1].ID) // 17
    assert.Equal(t, int64(3), page.Total)
    assert.True(t, page.HasNext)

    last, err := env.feed.GetTrendingFeed(ctx, 2, 2)
    require.NoError(t, err)
    require.Len(t, last.Posts, 1)
    assert.Equal(t, ids[0], last.Posts[0].ID)
    assert.False(t, last.HasNext)
}

// 热门榜：全局 ZSet 命中时按热度分值取页
func TestGetTrendingFromHotCache(t *testing.T) {
    env := newTestEnv(t)
    ctx := context.Background()

    author := env.createUser(t, "henry", true)
    p1 := env.publishAt(t, author, time.Now())
    p2 := env.publishAt(t, author, time.Now())
    key := cache.HotPostsKey()
    require.NoError(t, env.timeline.Add(ctx, key, p1.ID, 10))
    require.NoError(t, env.timeline.Add(ctx, key, p2.ID, 30))

    page, err := env.feed.GetTrendingFeed(ctx, 1, 10)
    require.NoError(t, err)
    require.Len(t, page.Posts, 2)
    assert.Equal(t, p2.ID, page.Posts[0].ID)
    assert.Equal(t, p1.ID, page.Posts[1].ID)
    assert.Equal(t, int64(2), page.Total)
    assert.False(t, page.HasNext)
}
