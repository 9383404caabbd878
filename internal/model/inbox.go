package model

import "time"

// FeedInbox 收件箱时间线项（推模式，按 user_id 切分）
// 自增ID即翻页游标，单用户内单调递增
type FeedInbox struct {
    ID       int64 `gorm:"primaryKey;autoIncrement"`
    UserID   int64 `gorm:"index:idx_inbox_user;uniqueIndex:ux_inbox_user_post;not null"`
    PostID   int64 `gorm:"uniqueIndex:ux_inbox_user_post;not null"`
    AuthorID int64 `gorm:"not null"`
    // 复合唯一键，避免重复 (user, post)
    // ux_inbox_user_post = (user_id, post_id)
    Score     int64 `gorm:"index:idx_inbox_user_score"` // 发布时间毫秒时间戳
    CreatedAt time.Time
}

func (FeedInbox) TableName() string { return "feed_inbox" }
