package cache

import (
    "context"
    "strconv"
    "time"

    "github.com/redis/go-redis/v9"
)

// Timeline 有界有序时间线缓存：按 score（发布时间戳）倒序，
// 容量上限 maxSize，滑动过期 ttl。每用户一个 ZSet，互不干扰，
// 增删改依赖 Redis 单 key 原子性，不引入外部锁。
type Timeline struct {
    rdb     *redis.Client
    maxSize int64
    ttl     time.Duration
}

func NewTimeline(rdb *redis.Client, maxSize int64, ttl time.Duration) *Timeline {
    return &Timeline{rdb: rdb, maxSize: maxSize, ttl: ttl}
}

// Add 写入一条并裁剪到 maxSize（淘汰 score 最小者），刷新 TTL
func (t *Timeline) Add(ctx context.Context, key string, postID int64, score int64) error {
    pipe := t.rdb.TxPipeline()
    pipe.ZAdd(ctx, key, redis.Z{Score: float64(score), Member: member(postID)})
    pipe.ZRemRangeByRank(ctx, key, 0, -(t.maxSize + 1))
    pipe.Expire(ctx, key, t.ttl)
    _, err := pipe.Exec(ctx)
    return err
}

// Size 当前缓存条数
func (t *Timeline) Size(ctx context.Context, key string) (int64, error) {
    return t.rdb.ZCard(ctx, key).Result()
}

// Latest 取 score 最大的前 limit 条，读也刷新 TTL（滑动过期）
func (t *Timeline) Latest(ctx context.Context, key string, limit int64) ([]int64, error) {
    pipe := t.rdb.Pipeline()
    cmd := pipe.ZRevRange(ctx, key, 0, limit-1)
    pipe.Expire(ctx, key, t.ttl)
    if _, err := pipe.Exec(ctx); err != nil {
        return nil, err
    }
    return parseMembers(cmd.Val())
}

// After 取游标成员之后（倒序）的 limit 条。
// 游标按成员反向排名定位，score 相同也不歧义；
// 游标不在集合中时返回 found=false，由上层降级到持久层。
func (t *Timeline) After(ctx context.Context, key string, cursorPostID int64, limit int64) ([]int64, bool, error) {
    rank, err := t.rdb.ZRevRank(ctx, key, member(cursorPostID)).Result()
    if err == redis.Nil {
        return nil, false, nil
    }
    if err != nil {
        return nil, false, err
    }
    pipe := t.rdb.Pipeline()
    cmd := pipe.ZRevRange(ctx, key, rank+1, rank+limit)
    pipe.Expire(ctx, key, t.ttl)
    if _, err := pipe.Exec(ctx); err != nil {
        return nil, false, err
    }
    ids, err := parseMembers(cmd.Val())
    return ids, true, err
}

// Range 按倒序排名区间取成员（热门榜偏移分页用）
func (t *Timeline) Range(ctx context.Context, key string, start, stop int64) ([]int64, error) {
    vals, err := t.rdb.ZRevRange(ctx, key, start, stop).Result()
    if err != nil {
        return nil, err
    }
    return parseMembers(vals)
}

// Entry 时间线缓存项
type Entry struct {
    PostID int64
    Score  int64
}

// Rebuild 原子重建：清空后整体写入快照并设置 TTL
func (t *Timeline) Rebuild(ctx context.Context, key string, entries []Entry) error {
    pipe := t.rdb.TxPipeline()
    pipe.Del(ctx, key)
    if len(entries) > 0 {
        zs := make([]redis.Z, len(entries))
        for i, e := range entries {
            zs[i] = redis.Z{Score: float64(e.Score), Member: member(e.PostID)}
        }
        pipe.ZAdd(ctx, key, zs...)
        pipe.ZRemRangeByRank(ctx, key, 0, -(t.maxSize + 1))
        pipe.Expire(ctx, key, t.ttl)
    }
    _, err := pipe.Exec(ctx)
    return err
}

// Clear 删除整个时间线 key
func (t *Timeline) Clear(ctx context.Context, key string) error {
    return t.rdb.Del(ctx, key).Err()
}

// IncrScore 热门榜计数自增
func (t *Timeline) IncrScore(ctx context.Context, key string, postID int64, delta float64) error {
    return t.rdb.ZIncrBy(ctx, key, delta, member(postID)).Err()
}

func member(postID int64) string {
    return strconv.FormatInt(postID, 10)
}

func parseMembers(vals []string) ([]int64, error) {
    ids := make([]int64, 0, len(vals))
    for _, v := range vals {
        id, err := strconv.ParseInt(v, 10, 64)
        if err != nil {
            return nil, err
        }
        ids = append(ids, id)
    }
    return ids, nil
}
