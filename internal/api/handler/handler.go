package handler

import (
    "github.com/d60-Lab/feed-stream/internal/service"
)

// Handler 聚合各业务服务
type Handler struct {
    userService service.UserService
    postService service.PostService
    feedService service.FeedService
    relService  service.RelationshipService
}

func New(
    userService service.UserService,
    postService service.PostService,
    feedService service.FeedService,
    relService service.RelationshipService,
) *Handler {
    return &Handler{
        userService: userService,
        postService: postService,
        feedService: feedService,
        relService:  relService,
    }
}
