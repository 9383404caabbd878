package middleware

import (
    "strings"

    "github.com/gin-gonic/gin"

    "github.com/d60-Lab/feed-stream/pkg/jwt"
    "github.com/d60-Lab/feed-stream/pkg/response"
)

// Auth JWT 鉴权，校验通过后把用户ID注入上下文
func Auth(secret string) gin.HandlerFunc {
    return func(c *gin.Context) {
        header := c.GetHeader("Authorization")
        if header == "" || !strings.HasPrefix(header, "Bearer ") {
            response.Unauthorized(c, "缺少认证信息")
            return
        }
        userID, err := jwt.ParseToken(secret, strings.TrimPrefix(header, "Bearer "))
        if err != nil {
            response.Unauthorized(c, "认证信息无效或已过期")
            return
        }
        c.Set("userID", userID)
        c.Next()
    }
}
