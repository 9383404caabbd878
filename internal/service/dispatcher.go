package service

import (
    "context"
    "sync"
    "time"

    "go.uber.org/zap"

    "github.com/d60-Lab/feed-stream/internal/model"
    "github.com/d60-Lab/feed-stream/pkg/logger"
)

// dispatchTimeout 单条内容分发的时间上限
const dispatchTimeout = 30 * time.Second

// Dispatcher 异步分发器：有界队列 + 固定 worker 池，
// 把扇出从发布请求的关键路径上摘下来。队列满或已停机时丢弃任务
// （fire-and-forget，不提供落盘重试）。
type Dispatcher struct {
    fanout  *FanoutService
    ch      chan *model.Post
    workers int

    mu     sync.RWMutex
    closed bool
    wg     sync.WaitGroup
}

func NewDispatcher(fanout *FanoutService, workers, queueSize int) *Dispatcher {
    if workers <= 0 {
        workers = 4
    }
    if queueSize <= 0 {
        queueSize = 1000
    }
    return &Dispatcher{
        fanout:  fanout,
        ch:      make(chan *model.Post, queueSize),
        workers: workers,
    }
}

// Start 启动 worker 池
func (d *Dispatcher) Start() {
    for i := 0; i < d.workers; i++ {
        d.wg.Add(1)
        go d.loop()
    }
}

func (d *Dispatcher) loop() {
    defer d.wg.Done()
    for post := range d.ch {
        ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
        d.fanout.Dispatch(ctx, post)
        cancel()
    }
}

// Submit 提交分发任务。队列满或已停机时丢弃并告警，返回是否入队。
func (d *Dispatcher) Submit(post *model.Post) bool {
    d.mu.RLock()
    defer d.mu.RUnlock()
    if d.closed {
        logger.Warn("dispatcher stopped, drop post", zap.Int64("post", post.ID))
        return false
    }
    select {
    case d.ch <- post:
        return true
    default:
        logger.Warn("dispatch queue full, drop post", zap.Int64("post", post.ID))
        return false
    }
}

// Stop 优雅停机：拒收新任务，排空在途任务后返回；ctx 超时则提前放弃等待
func (d *Dispatcher) Stop(ctx context.Context) error {
    d.mu.Lock()
    if d.closed {
        d.mu.Unlock()
        return nil
    }
    d.closed = true
    close(d.ch)
    d.mu.Unlock()

    done := make(chan struct{})
    go func() {
        d.wg.Wait()
        close(done)
    }()
    select {
    case <-done:
        return nil
    case <-ctx.Done():
        return ctx.Err()
    }
}

// QueueLen 当前队列长度（采样值）
func (d *Dispatcher) QueueLen() int { return len(d.ch) }
