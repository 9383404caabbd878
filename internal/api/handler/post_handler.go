package handler

import (
    "encoding/json"
    "errors"
    "strconv"

    "github.com/gin-gonic/gin"

    "github.com/d60-Lab/feed-stream/internal/model"
    "github.com/d60-Lab/feed-stream/internal/service"
    "github.com/d60-Lab/feed-stream/pkg/response"
)

type publishRequest struct {
    Content  string   `json:"content" binding:"required,min=1,max=5000"`
    Images   []string `json:"images" binding:"omitempty,max=9,dive,httpurl"`
    VideoURL string   `json:"video_url" binding:"omitempty,httpurl"`
    Topic    string   `json:"topic" binding:"omitempty,max=50"`
}

// PublishPost 发布内容
// @Summary 发布内容
// @Description 发布图文/视频内容并触发Feed分发
// @Tags 内容
// @Accept json
// @Produce json
// @Param request body publishRequest true "内容信息"
// @Success 200 {object} response.Response{data=int64}
// @Failure 400 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /api/v1/posts [post]
func (h *Handler) PublishPost(c *gin.Context) {
    var req publishRequest
    if err := c.ShouldBindJSON(&req); err != nil {
        response.BadRequest(c, err.Error())
        return
    }

    post := &model.Post{
        AuthorID: c.GetInt64("userID"),
        Content:  req.Content,
        VideoURL: req.VideoURL,
        Topic:    req.Topic,
    }
    if len(req.Images) > 0 {
        data, _ := json.Marshal(req.Images)
        post.Images = string(data)
    }

    postID, err := h.postService.Publish(c.Request.Context(), post)
    if err != nil {
        response.InternalError(c, err)
        return
    }
    response.SuccessMsg(c, "发布成功", postID)
}

// GetPost 获取内容详情
// @Summary 获取内容详情
// @Tags 内容
// @Produce json
// @Param post_id path int true "内容ID"
// @Success 200 {object} response.Response{data=model.Post}
// @Failure 404 {object} response.Response
// @Router /api/v1/posts/{post_id} [get]
func (h *Handler) GetPost(c *gin.Context) {
    postID, err := strconv.ParseInt(c.Param("post_id"), 10, 64)
    if err != nil {
        response.BadRequest(c, "内容ID格式错误")
        return
    }

    post, err := h.postService.GetByID(c.Request.Context(), postID)
    if err != nil {
        if errors.Is(err, service.ErrPostNotFound) {
            response.Fail(c, response.CodePostNotFound, "内容不存在")
            return
        }
        response.InternalError(c, err)
        return
    }
    response.Success(c, post)
}

// LikePost 点赞内容
// @Summary 点赞内容
// @Tags 内容
// @Produce json
// @Param post_id path int true "内容ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/v1/posts/{post_id}/like [post]
func (h *Handler) LikePost(c *gin.Context) {
    postID, err := strconv.ParseInt(c.Param("post_id"), 10, 64)
    if err != nil {
        response.BadRequest(c, "内容ID格式错误")
        return
    }
    if err := h.postService.Like(c.Request.Context(), postID); err != nil {
        response.InternalError(c, err)
        return
    }
    response.SuccessMsg(c, "点赞成功", nil)
}
