package handler

import (
    "errors"
    "strconv"

    "github.com/gin-gonic/gin"

    "github.com/d60-Lab/feed-stream/internal/service"
    "github.com/d60-Lab/feed-stream/pkg/response"
)

// GetTimeline 获取关注Feed流
// @Summary 获取关注时间线
// @Description 游标分页的关注Feed流，支持滚动加载
// @Tags Feed流
// @Produce json
// @Param cursor query int false "游标：上一页最后一条内容ID，首次请求不传"
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} response.Response{data=response.PageResult}
// @Failure 500 {object} response.Response
// @Router /api/v1/feed/timeline [get]
func (h *Handler) GetTimeline(c *gin.Context) {
    userID := c.GetInt64("userID")

    var cursor *int64
    if raw := c.Query("cursor"); raw != "" {
        v, err := strconv.ParseInt(raw, 10, 64)
        if err != nil {
            response.BadRequest(c, "游标格式错误")
            return
        }
        cursor = &v
    }
    pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

    page, err := h.feedService.GetUserFeed(c.Request.Context(), userID, cursor, pageSize)
    if err != nil {
        if errors.Is(err, service.ErrFeedLoadFailed) {
            response.Fail(c, response.CodeFeedLoadFailed, "Feed流加载失败")
            return
        }
        response.InternalError(c, err)
        return
    }
    response.Success(c, response.PageResult{
        List:       page.Posts,
        HasNext:    page.HasNext,
        NextCursor: page.NextCursor,
    })
}

// GetTrending 获取热门Feed流
// @Summary 获取热门内容
// @Description 按热度排序的全局内容榜，偏移分页
// @Tags Feed流
// @Produce json
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} response.Response{data=response.PageResult}
// @Failure 500 {object} response.Response
// @Router /api/v1/feed/trending [get]
func (h *Handler) GetTrending(c *gin.Context) {
    page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
    pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

    result, err := h.feedService.GetTrendingFeed(c.Request.Context(), page, pageSize)
    if err != nil {
        if errors.Is(err, service.ErrFeedLoadFailed) {
            response.Fail(c, response.CodeFeedLoadFailed, "Feed流加载失败")
            return
        }
        response.InternalError(c, err)
        return
    }
    response.Success(c, response.PageResult{
        List:     result.Posts,
        Total:    result.Total,
        Page:     result.Page,
        PageSize: result.PageSize,
        HasNext:  result.HasNext,
    })
}

// RefreshFeed 刷新Feed缓存
// @Summary 刷新当前用户的Feed缓存
// @Description 从持久收件箱重建时间线缓存
// @Tags Feed流
// @Produce json
// @Success 200 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /api/v1/feed/refresh [post]
func (h *Handler) RefreshFeed(c *gin.Context) {
    userID := c.GetInt64("userID")
    if err := h.feedService.RefreshUserFeedCache(c.Request.Context(), userID); err != nil {
        response.InternalError(c, err)
        return
    }
    response.SuccessMsg(c, "刷新成功", nil)
}
