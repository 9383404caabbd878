package model

import "time"

// User 用户实体（粉丝数/关注数冗余计数）
type User struct {
    ID             int64  `gorm:"primaryKey;autoIncrement" json:"id"`
    Username       string `gorm:"type:varchar(64);uniqueIndex;not null" json:"username"`
    Password       string `gorm:"type:varchar(128);not null" json:"-"`
    Nickname       string `gorm:"type:varchar(64)" json:"nickname"`
    Avatar         string `gorm:"type:varchar(255)" json:"avatar"`
    Bio            string `gorm:"type:varchar(255)" json:"bio"`
    FollowerCount  int64  `gorm:"not null;default:0" json:"follower_count"`
    FollowingCount int64  `gorm:"not null;default:0" json:"following_count"`
    PostCount      int64  `gorm:"not null;default:0" json:"post_count"`
    // 是否活跃用户，推模式只投递给活跃粉丝
    IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
    CreatedAt time.Time `json:"created_at"`
    UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }
