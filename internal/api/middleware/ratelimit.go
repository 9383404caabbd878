package middleware

import (
    "strconv"
    "sync"

    "github.com/gin-gonic/gin"
    "golang.org/x/time/rate"

    "github.com/d60-Lab/feed-stream/pkg/response"
)

// RateLimit 令牌桶限流，登录用户按用户ID、匿名请求按客户端IP
func RateLimit(r rate.Limit, burst int) gin.HandlerFunc {
    var (
        mu       sync.Mutex
        limiters = make(map[string]*rate.Limiter)
    )
    limiterFor := func(key string) *rate.Limiter {
        mu.Lock()
        defer mu.Unlock()
        l, ok := limiters[key]
        if !ok {
            l = rate.NewLimiter(r, burst)
            limiters[key] = l
        }
        return l
    }

    return func(c *gin.Context) {
        key := c.ClientIP()
        if userID := c.GetInt64("userID"); userID > 0 {
            key = "u:" + strconv.FormatInt(userID, 10)
        }
        if !limiterFor(key).Allow() {
            response.Fail(c, response.CodeError, "请求过于频繁，请稍后再试")
            c.Abort()
            return
        }
        c.Next()
    }
}
