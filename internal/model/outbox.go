package model

import "time"

// FeedOutbox 发件箱（拉模式，粉丝读取时回源）
type FeedOutbox struct {
    ID       int64 `gorm:"primaryKey;autoIncrement"`
    AuthorID int64 `gorm:"index:idx_outbox_author;not null"`
    PostID   int64 `gorm:"uniqueIndex;not null"`
    // 发布时间毫秒时间戳，与收件箱同一排序空间
    Score     int64     `gorm:"index:idx_outbox_author_score"`
    CreatedAt time.Time `gorm:"index"`
}

func (FeedOutbox) TableName() string { return "feed_outbox" }
