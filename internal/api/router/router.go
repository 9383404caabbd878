package router

import (
    "strings"

    sentrygin "github.com/getsentry/sentry-go/gin"
    "github.com/gin-contrib/gzip"
    "github.com/gin-gonic/gin"
    "github.com/gin-gonic/gin/binding"
    "github.com/go-playground/validator/v10"
    swaggerFiles "github.com/swaggo/files"
    ginSwagger "github.com/swaggo/gin-swagger"
    "go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
    "golang.org/x/time/rate"

    "github.com/d60-Lab/feed-stream/config"
    _ "github.com/d60-Lab/feed-stream/docs"
    "github.com/d60-Lab/feed-stream/internal/api/handler"
    "github.com/d60-Lab/feed-stream/internal/api/middleware"
)

// New 组装路由与中间件
func New(cfg *config.Config, h *handler.Handler) *gin.Engine {
    gin.SetMode(cfg.Server.Mode)
    registerValidations()

    r := gin.New()
    r.Use(gin.Logger(), gin.Recovery())
    r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
    r.Use(otelgin.Middleware("feed-stream"))
    r.Use(gzip.Gzip(gzip.DefaultCompression))

    r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
    r.GET("/healthz", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })

    v1 := r.Group("/api/v1")
    v1.Use(middleware.RateLimit(rate.Limit(100), 200))

    auth := v1.Group("/auth")
    {
        auth.POST("/register", h.Register)
        auth.POST("/login", h.Login)
    }

    authed := v1.Group("")
    authed.Use(middleware.Auth(cfg.JWT.Secret))
    {
        feed := authed.Group("/feed")
        {
            feed.GET("/timeline", h.GetTimeline)
            feed.GET("/trending", h.GetTrending)
            feed.POST("/refresh", h.RefreshFeed)
        }

        posts := authed.Group("/posts")
        {
            posts.POST("", h.PublishPost)
            posts.GET("/:post_id", h.GetPost)
            posts.POST("/:post_id/like", h.LikePost)
        }

        rel := authed.Group("/relations")
        {
            rel.POST("/follow", h.Follow)
            rel.POST("/unfollow", h.Unfollow)
            rel.GET("/:user_id/following", h.ListFollowing)
            rel.GET("/:user_id/followers", h.ListFollowers)
        }
    }

    return r
}

// registerValidations 注册自定义校验规则
func registerValidations() {
    v, ok := binding.Validator.Engine().(*validator.Validate)
    if !ok {
        return
    }
    _ = v.RegisterValidation("httpurl", func(fl validator.FieldLevel) bool {
        s := fl.Field().String()
        return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
    })
}
