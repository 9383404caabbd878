package response

import (
    "net/http"

    "github.com/gin-gonic/gin"
)

// 业务状态码
const (
    CodeSuccess      = 200
    CodeError        = 500
    CodeParamError   = 400
    CodeNotFound     = 404
    CodeUnauthorized = 401

    CodeUserNotFound     = 1001
    CodeUserExists       = 1002
    CodePostNotFound     = 2001
    CodeAlreadyFollowed  = 3001
    CodeNotFollowed      = 3002
    CodeCannotFollowSelf = 3003
    CodeFeedLoadFailed   = 4001
)

// Response 统一响应结构
type Response struct {
    Code    int         `json:"code"`
    Message string      `json:"message"`
    Data    interface{} `json:"data,omitempty"`
}

// PageResult 分页响应结果，游标字段用于 Feed 流滚动加载
type PageResult struct {
    List       interface{} `json:"list"`
    Total      int64       `json:"total,omitempty"`
    Page       int         `json:"page,omitempty"`
    PageSize   int         `json:"page_size,omitempty"`
    HasNext    bool        `json:"has_next"`
    NextCursor *int64      `json:"next_cursor,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
    c.JSON(http.StatusOK, Response{Code: CodeSuccess, Message: "操作成功", Data: data})
}

func SuccessMsg(c *gin.Context, msg string, data interface{}) {
    c.JSON(http.StatusOK, Response{Code: CodeSuccess, Message: msg, Data: data})
}

func BadRequest(c *gin.Context, msg string) {
    c.JSON(http.StatusBadRequest, Response{Code: CodeParamError, Message: msg})
}

func Unauthorized(c *gin.Context, msg string) {
    c.AbortWithStatusJSON(http.StatusUnauthorized, Response{Code: CodeUnauthorized, Message: msg})
}

func InternalError(c *gin.Context, err error) {
    c.JSON(http.StatusInternalServerError, Response{Code: CodeError, Message: err.Error()})
}

// Fail 按业务码返回错误
func Fail(c *gin.Context, code int, msg string) {
    c.JSON(http.StatusOK, Response{Code: code, Message: msg})
}
