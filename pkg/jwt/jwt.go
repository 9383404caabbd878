package jwt

import (
    "errors"
    "fmt"
    "time"

    "github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims 自定义声明，携带用户ID
type Claims struct {
    UserID int64 `json:"user_id"`
    jwt.RegisteredClaims
}

// GenerateToken 签发访问令牌
func GenerateToken(secret string, userID int64, ttl time.Duration) (string, error) {
    now := time.Now()
    claims := Claims{
        UserID: userID,
        RegisteredClaims: jwt.RegisteredClaims{
            IssuedAt:  jwt.NewNumericDate(now),
            ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
        },
    }
    token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    return token.SignedString([]byte(secret))
}

// ParseToken 解析并校验令牌，返回用户ID
func ParseToken(secret, tokenString string) (int64, error) {
    token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
        }
        return []byte(secret), nil
    })
    if err != nil {
        return 0, err
    }
    claims, ok := token.Claims.(*Claims)
    if !ok || !token.Valid {
        return 0, ErrInvalidToken
    }
    return claims.UserID, nil
}
