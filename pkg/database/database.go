package database

import (
    "fmt"
    "time"

    "gorm.io/driver/postgres"
    "gorm.io/gorm"
    gormlogger "gorm.io/gorm/logger"

    "github.com/d60-Lab/feed-stream/config"
    "github.com/d60-Lab/feed-stream/internal/model"
)

// InitDB 初始化数据库连接并迁移表结构
func InitDB(cfg *config.Config) (*gorm.DB, error) {
    logLevel := gormlogger.Warn
    if cfg.Server.Mode == "debug" {
        logLevel = gormlogger.Info
    }

    db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{
        Logger: gormlogger.Default.LogMode(logLevel),
    })
    if err != nil {
        return nil, fmt.Errorf("open database: %w", err)
    }

    sqlDB, err := db.DB()
    if err != nil {
        return nil, err
    }
    sqlDB.SetMaxOpenConns(100)
    sqlDB.SetMaxIdleConns(10)
    sqlDB.SetConnMaxLifetime(time.Hour)

    if err := db.AutoMigrate(
        &model.User{},
        &model.Post{},
        &model.Follow{},
        &model.FeedInbox{},
        &model.FeedOutbox{},
    ); err != nil {
        return nil, fmt.Errorf("migrate: %w", err)
    }
    return db, nil
}
