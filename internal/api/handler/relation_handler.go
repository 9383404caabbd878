package handler

import (
    "errors"
    "strconv"

    "github.com/gin-gonic/gin"

    "github.com/d60-Lab/feed-stream/internal/service"
    "github.com/d60-Lab/feed-stream/pkg/response"
)

type followRequest struct {
    UserID int64 `json:"user_id" binding:"required"`
}

func (h *Handler) relError(c *gin.Context, err error) {
    switch {
    case errors.Is(err, service.ErrFollowSelf):
        response.Fail(c, response.CodeCannotFollowSelf, "不能关注自己")
    case errors.Is(err, service.ErrAlreadyFollowed):
        response.Fail(c, response.CodeAlreadyFollowed, "已关注该用户")
    case errors.Is(err, service.ErrNotFollowed):
        response.Fail(c, response.CodeNotFollowed, "未关注该用户")
    case errors.Is(err, service.ErrUserNotFound):
        response.Fail(c, response.CodeUserNotFound, "用户不存在")
    default:
        response.InternalError(c, err)
    }
}

// Follow 关注用户
// @Summary 关注用户
// @Tags 关系链
// @Accept json
// @Produce json
// @Param request body followRequest true "被关注用户"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /api/v1/relations/follow [post]
func (h *Handler) Follow(c *gin.Context) {
    var req followRequest
    if err := c.ShouldBindJSON(&req); err != nil {
        response.BadRequest(c, err.Error())
        return
    }
    if err := h.relService.Follow(c.Request.Context(), c.GetInt64("userID"), req.UserID); err != nil {
        h.relError(c, err)
        return
    }
    response.Success(c, nil)
}

// Unfollow 取消关注
// @Summary 取消关注
// @Tags 关系链
// @Accept json
// @Produce json
// @Param request body followRequest true "取消关注用户"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /api/v1/relations/unfollow [post]
func (h *Handler) Unfollow(c *gin.Context) {
    var req followRequest
    if err := c.ShouldBindJSON(&req); err != nil {
        response.BadRequest(c, err.Error())
        return
    }
    if err := h.relService.Unfollow(c.Request.Context(), c.GetInt64("userID"), req.UserID); err != nil {
        h.relError(c, err)
        return
    }
    response.Success(c, nil)
}

// ListFollowing 查询某用户关注的人
// @Summary 查询关注列表
// @Tags 关系链
// @Param user_id path int true "用户ID"
// @Success 200 {object} response.Response{data=[]int64}
// @Router /api/v1/relations/{user_id}/following [get]
func (h *Handler) ListFollowing(c *gin.Context) {
    userID, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
    if err != nil {
        response.BadRequest(c, "用户ID格式错误")
        return
    }
    ids, err := h.relService.FolloweeIDs(c.Request.Context(), userID)
    if err != nil {
        response.InternalError(c, err)
        return
    }
    response.Success(c, ids)
}

// ListFollowers 查询某用户的粉丝
// @Summary 查询粉丝列表
// @Tags 关系链
// @Param user_id path int true "用户ID"
// @Success 200 {object} response.Response{data=[]int64}
// @Router /api/v1/relations/{user_id}/followers [get]
func (h *Handler) ListFollowers(c *gin.Context) {
    userID, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
    if err != nil {
        response.BadRequest(c, "用户ID格式错误")
        return
    }
    ids, err := h.relService.FollowerIDs(c.Request.Context(), userID)
    if err != nil {
        response.InternalError(c, err)
        return
    }
    response.Success(c, ids)
}
