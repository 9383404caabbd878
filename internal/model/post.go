package model

import "time"

// 内容状态
const (
    PostStatusDraft     int8 = 0
    PostStatusPublished int8 = 1
    PostStatusDeleted   int8 = 2
)

// Post 内容主体
type Post struct {
    ID       int64  `gorm:"primaryKey;autoIncrement" json:"id"`
    AuthorID int64  `gorm:"index:idx_post_author;not null" json:"author_id"`
    Content  string `gorm:"type:text" json:"content"`
    // 图片URL列表，JSON 序列化存储
    Images       string    `gorm:"type:text" json:"images,omitempty"`
    VideoURL     string    `gorm:"type:varchar(255)" json:"video_url,omitempty"`
    Topic        string    `gorm:"type:varchar(50)" json:"topic,omitempty"`
    LikeCount    int64     `gorm:"not null;default:0" json:"like_count"`
    CommentCount int64     `gorm:"not null;default:0" json:"comment_count"`
    ShareCount   int64     `gorm:"not null;default:0" json:"share_count"`
    ViewCount    int64     `gorm:"not null;default:0" json:"view_count"`
    Status       int8      `gorm:"index;not null;default:0" json:"status"`
    CreatedAt    time.Time `gorm:"index" json:"created_at"`
    UpdatedAt    time.Time `json:"updated_at"`
}

func (Post) TableName() string { return "posts" }

// PublishScore 发布时间毫秒时间戳，作为时间线 ZSet 的 score
func (p *Post) PublishScore() int64 {
    return p.CreatedAt.UnixMilli()
}
