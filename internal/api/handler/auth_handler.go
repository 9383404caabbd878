package handler

import (
    "errors"

    "github.com/gin-gonic/gin"

    "github.com/d60-Lab/feed-stream/internal/service"
    "github.com/d60-Lab/feed-stream/pkg/response"
)

type registerRequest struct {
    Username string `json:"username" binding:"required,min=3,max=32"`
    Password string `json:"password" binding:"required,min=6,max=64"`
    Nickname string `json:"nickname" binding:"omitempty,max=64"`
}

type loginRequest struct {
    Username string `json:"username" binding:"required"`
    Password string `json:"password" binding:"required"`
}

// Register 注册
// @Summary 用户注册
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body registerRequest true "注册信息"
// @Success 200 {object} response.Response{data=model.User}
// @Failure 400 {object} response.Response
// @Router /api/v1/auth/register [post]
func (h *Handler) Register(c *gin.Context) {
    var req registerRequest
    if err := c.ShouldBindJSON(&req); err != nil {
        response.BadRequest(c, err.Error())
        return
    }
    user, err := h.userService.Register(c.Request.Context(), req.Username, req.Password, req.Nickname)
    if err != nil {
        if errors.Is(err, service.ErrUserExists) {
            response.Fail(c, response.CodeUserExists, "用户已存在")
            return
        }
        response.InternalError(c, err)
        return
    }
    response.SuccessMsg(c, "注册成功", user)
}

// Login 登录
// @Summary 用户登录
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body loginRequest true "登录信息"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /api/v1/auth/login [post]
func (h *Handler) Login(c *gin.Context) {
    var req loginRequest
    if err := c.ShouldBindJSON(&req); err != nil {
        response.BadRequest(c, err.Error())
        return
    }
    token, user, err := h.userService.Login(c.Request.Context(), req.Username, req.Password)
    if err != nil {
        if errors.Is(err, service.ErrInvalidCredentials) {
            response.Unauthorized(c, "用户名或密码错误")
            return
        }
        response.InternalError(c, err)
        return
    }
    response.Success(c, gin.H{"token": token, "user": user})
}
