package cache

import "fmt"

// Redis Key 统一在此拼接
const (
    feedPrefix      = "feed:"
    userPrefix      = "user:"
    postPrefix      = "post:"
    followerPrefix  = "follower:"
    followingPrefix = "following:"
)

// UserFeedKey 用户时间线缓存，ZSet，score 为发布时间戳
func UserFeedKey(userID int64) string {
    return fmt.Sprintf("%stimeline:%d", feedPrefix, userID)
}

// UserOutboxKey 作者发件箱缓存，ZSet，score 为发布时间戳
func UserOutboxKey(authorID int64) string {
    return fmt.Sprintf("%soutbox:%d", feedPrefix, authorID)
}

// UserInfoKey 用户信息缓存
func UserInfoKey(userID int64) string {
    return fmt.Sprintf("%sinfo:%d", userPrefix, userID)
}

// PostInfoKey 内容详情缓存
func PostInfoKey(postID int64) string {
    return fmt.Sprintf("%sinfo:%d", postPrefix, postID)
}

// FollowerSetKey 用户粉丝ID集合
func FollowerSetKey(userID int64) string {
    return fmt.Sprintf("%slist:%d", followerPrefix, userID)
}

// FollowingSetKey 用户关注ID集合
func FollowingSetKey(userID int64) string {
    return fmt.Sprintf("%slist:%d", followingPrefix, userID)
}

// HotPostsKey 全局热门内容 ZSet
func HotPostsKey() string {
    return postPrefix + "hot"
}
