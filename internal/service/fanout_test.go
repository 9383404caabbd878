package service

import (
    "context"
    "fmt"
    "testing"
    "time"

    "github.com/alicebob/miniredis/v2"
    "github.com/redis/go-redis/v9"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
    "gorm.io/driver/sqlite"
    "gorm.io/gorm"
    gormlogger "gorm.io/gorm/logger"

    "github.com/d60-Lab/feed-stream/config"
    "github.com/d60-Lab/feed-stream/internal/cache"
    "github.com/d60-Lab/feed-stream/internal/model"
    "github.com/d60-Lab/feed-stream/internal/repository"
)

// 测试用缩小阈值：<=10 推，>=100 拉，中间混合
var testFeedCfg = config.FeedConfig{
    PushFanThreshold: 10,
    PullFanThreshold: 100,
    CacheTTL:         86400,
    MaxFeedSize:      1000,
    PageSize:         20,
}

type testEnv struct {
    db  *gorm.DB
    mr  *miniredis.Miniredis
    rdb *redis.Client

    userRepo   repository.UserRepository
    postRepo   repository.PostRepository
    followRepo repository.FollowRepository
    inboxRepo  repository.InboxRepository
    outboxRepo repository.OutboxRepository

    timeline *cache.Timeline
    fanout   *FanoutService
    feed     FeedService
}

func newTestEnv(t *testing.T) *testEnv {
    t.Helper()
    db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
        Logger: gormlogger.Default.LogMode(gormlogger.Silent),
    })
    require.NoError(t, err)
    require.NoError(t, db.AutoMigrate(
        &model.User{}, &model.Post{}, &model.Follow{},
        &model.FeedInbox{}, &model.FeedOutbox{},
    ))

    mr := miniredis.RunT(t)
    rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
    t.Cleanup(func() { _ = rdb.Close() })

    env := &testEnv{
        db:         db,
        mr:         mr,
        rdb:        rdb,
        userRepo:   repository.NewUserRepository(db),
        postRepo:   repository.NewPostRepository(db),
        followRepo: repository.NewFollowRepository(db),
        inboxRepo:  repository.NewInboxRepository(db),
        outboxRepo: repository.NewOutboxRepository(db),
    }
    env.timeline = cache.NewTimeline(rdb, testFeedCfg.MaxFeedSize, testFeedCfg.CacheTTLDuration())
    env.fanout = NewFanoutService(testFeedCfg, env.followRepo, env.inboxRepo, env.outboxRepo, env.timeline)
    env.feed = NewFeedService(testFeedCfg, env.postRepo, env.inboxRepo, env.followRepo, env.timeline)
    return env
}

func (e *testEnv) createUser(t *testing.T, name string, active bool) *model.User {
    t.Helper()
    u := &model.User{Username: name, Password: "p", IsActive: active}
    require.NoError(t, e.db.Create(u).Error)
    return u
}

// createFollowers 创建 n 个活跃粉丝并关注 author
func (e *testEnv) createFollowers(t *testing.T, author *model.User, n int) []*model.User {
    t.Helper()
    ctx := context.Background()
    followers := make([]*model.User, n)
    for i := 0; i < n; i++ {
        followers[i] = e.createUser(t, fmt.Sprintf("%s_fan%04d", author.Username, i), true)
        require.NoError(t, e.followRepo.Create(ctx, followers[i].ID, author.ID))
    }
    return followers
}

// publishAt 直接落库一条已发布内容（分发由调用方触发）
func (e *testEnv) publishAt(t *testing.T, author *model.User, at time.Time) *model.Post {
    t.Helper()
    p := &model.Post{
        AuthorID:  author.ID,
        Content:   "hello",
        Status:    model.PostStatusPublished,
        CreatedAt: at,
        UpdatedAt: at,
    }
    require.NoError(t, e.db.Create(p).Error)
    return p
}

func TestDecideFanoutMode(t *testing.T) {
    cases := []struct {
        count int64
        want  FanoutMode
    }{
        {0, FanoutPush},
        {1000, FanoutPush},
        {1001, FanoutHybrid},
        {5000, FanoutHybrid},
        {9999, FanoutHybrid},
        {10000, FanoutPull},
        {20000, FanoutPull},
    }
    for _, c := range cases {
        got := DecideFanoutMode(c.count, 1000, 10000)
        assert.Equal(t, c.want, got, "count=%d", c.count)
    }
}

func TestFanoutModeString(t *testing.T) {
    assert.Equal(t, "PUSH", FanoutPush.String())
    assert.Equal(t, "PULL", FanoutPull.String())
    assert.Equal(t, "HYBRID", FanoutHybrid.String())
}

// 推模式：每个发布时在册的活跃粉丝恰好一条收件箱记录，零发件箱
func TestDispatchPushMode(t *testing.T) {
    env := newTestEnv(t)
    ctx := context.Background()

    author := env.createUser(t, "alice", true)
    followers := env.createFollowers(t, author, 5)
    publishedAt := time.UnixMilli(1000)
    post := env.publishAt(t, author, publishedAt)

    env.fanout.Dispatch(ctx, post)

    for _, f := range followers {
        cnt, err := env.inboxRepo.CountByUser(ctx, f.ID)
        require.NoError(t, err)
        assert.Equal(t, int64(1), cnt, "follower %d", f.ID)

        row, err := env.inboxRepo.GetByUserPost(ctx, f.ID, post.ID)
        require.NoError(t, err)
        assert.Equal(t, author.ID, row.AuthorID)
        assert.Equal(t, post.PublishScore(), row.Score)

        score := env.rdb.ZScore(ctx, cache.UserFeedKey(f.ID), fmt.Sprintf("%d", post.ID)).Val()
        assert.Equal(t, float64(1000), score)
    }

    outCnt, err := env.outboxRepo.CountByAuthor(ctx, author.ID)
    require.NoError(t, err)
    assert.Zero(t, outCnt)

    // 粉丝首页第一条即新内容
    page, err := env.feed.GetUserFeed(ctx, followers[0].ID, nil, 20)
    require.NoError(t, err)
    require.NotEmpty(t, page.Posts)
    assert.Equal(t, post.ID, page.Posts[0].ID)
}

// 拉模式：零收件箱，一条发件箱，粉丝读取时回源命中
func TestDispatchPullMode(t *testing.T) {
    env := newTestEnv(t)
    ctx := context.Background()

    author := env.createUser(t, "bigv", true)
    followers := env.createFollowers(t, author, 120) // >= 拉阈值 100
    post := env.publishAt(t, author, time.Now())

    env.fanout.Dispatch(ctx, post)

    inCnt, err := env.inboxRepo.CountByPost(ctx, post.ID)
    require.NoError(t, err)
    assert.Zero(t, inCnt)

    outCnt, err := env.outboxRepo.CountByAuthor(ctx, author.ID)
    require.NoError(t, err)
    assert.Equal(t, int64(1), outCnt)

    // 作者发件箱缓存已写入
    assert.Equal(t, int64(1), env.rdb.ZCard(ctx, cache.UserOutboxKey(author.ID)).Val())

    // 粉丝缓存和收件箱均为空，走回源层
    page, err := env.feed.GetUserFeed(ctx, followers[0].ID, nil, 20)
    require.NoError(t, err)
    require.Len(t, page.Posts, 1)
    assert.Equal(t, post.ID, page.Posts[0].ID)
}

// 混合模式：收件箱与发件箱双写，读取端按内容ID去重后只出现一次
func TestDispatchHybridMode(t *testing.T) {
    env := newTestEnv(t)
    ctx := context.Background()

    author := env.createUser(t, "mid", true)
    followers := env.createFollowers(t, author, 50) // 10 < 50 < 100
    post := env.publishAt(t, author, time.Now())

    env.fanout.Dispatch(ctx, post)

    inCnt, err := env.inboxRepo.CountByPost(ctx, post.ID)
    require.NoError(t, err)
    assert.Equal(t, int64(50), inCnt)

    outCnt, err := env.outboxRepo.CountByAuthor(ctx, author.ID)
    require.NoError(t, err)
    assert.Equal(t, int64(1), outCnt)

    page, err := env.feed.GetUserFeed(ctx, followers[0].ID, nil, 20)
    require.NoError(t, err)
    occurrences := 0
    for _, p := range page.Posts {
        if p.ID == post.ID {
            occurrences++
        }
    }
    assert.Equal(t, 1, occurrences)
}

// 不活跃粉丝不投递
func TestDispatchPushSkipsInactiveFollowers(t *testing.T) {
    env := newTestEnv(t)
    ctx := context.Background()

    author := env.createUser(t, "carol", true)
    active := env.createFollowers(t, author, 3)
    inactive := env.createUser(t, "sleeper", false)
    require.NoError(t, env.followRepo.Create(ctx, inactive.ID, author.ID))

    post := env.publishAt(t, author, time.Now())
    env.fanout.Dispatch(ctx, post)

    cnt, err := env.inboxRepo.CountByPost(ctx, post.ID)
    require.NoError(t, err)
    assert.Equal(t, int64(len(active)), cnt)

    cnt, err = env.inboxRepo.CountByUser(ctx, inactive.ID)
    require.NoError(t, err)
    assert.Zero(t, cnt)
}

// 零粉丝：无操作且不报错
func TestDispatchPushNoFollowers(t *testing.T) {
    env := newTestEnv(t)
    ctx := context.Background()

    author := env.createUser(t, "loner", true)
    post := env.publishAt(t, author, time.Now())
    env.fanout.Dispatch(ctx, post)

    var total int64
    require.NoError(t, env.db.Model(&model.FeedInbox{}).Count(&total).Error)
    assert.Zero(t, total)
}

// 事后新增的粉丝不追溯补投
func TestDispatchNoRetroactiveBackfill(t *testing.T) {
    env := newTestEnv(t)
    ctx := context.Background()

    author := env.createUser(t, "dan", true)
    env.createFollowers(t, author, 2)
    post := env.publishAt(t, author, time.Now())
    env.fanout.Dispatch(ctx, post)

    late := env.createUser(t, "latecomer", true)
    require.NoError(t, env.followRepo.Create(ctx, late.ID, author.ID))

    cnt, err := env.inboxRepo.CountByUser(ctx, late.ID)
    require.NoError(t, err)
    assert.Zero(t, cnt)
}

// 重复分发同一内容幂等：收件箱行不翻倍
func TestDispatchIdempotentOnRetry(t *testing.T) {
    env := newTestEnv(t)
    ctx := context.Background()

    author := env.createUser(t, "erin", true)
    env.createFollowers(t, author, 4)
    post := env.publishAt(t, author, time.Now())

    env.fanout.Dispatch(ctx, post)
    env.fanout.Dispatch(ctx, post)

    cnt, err := env.inboxRepo.CountByPost(ctx, post.ID)
    require.NoError(t, err)
    assert.Equal(t, int64(4), cnt)
}
