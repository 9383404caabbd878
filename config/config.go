package config

import (
    "fmt"
    "strings"
    "time"

    "github.com/spf13/viper"
)

// Config 应用配置
type Config struct {
    Server   ServerConfig   `mapstructure:"server"`
    Database DatabaseConfig `mapstructure:"database"`
    Redis    RedisConfig    `mapstructure:"redis"`
    JWT      JWTConfig      `mapstructure:"jwt"`
    Feed     FeedConfig     `mapstructure:"feed"`
    Dispatch DispatchConfig `mapstructure:"dispatch"`
    Sentry   SentryConfig   `mapstructure:"sentry"`
    Trace    TraceConfig    `mapstructure:"trace"`
}

type ServerConfig struct {
    Port int    `mapstructure:"port"`
    Mode string `mapstructure:"mode"` // debug / release
}

type DatabaseConfig struct {
    Host     string `mapstructure:"host"`
    Port     int    `mapstructure:"port"`
    User     string `mapstructure:"user"`
    Password string `mapstructure:"password"`
    DBName   string `mapstructure:"dbname"`
    SSLMode  string `mapstructure:"sslmode"`
}

// DSN 拼接 Postgres 连接串
func (d DatabaseConfig) DSN() string {
    return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
        d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

type RedisConfig struct {
    Addr     string `mapstructure:"addr"`
    Password string `mapstructure:"password"`
    DB       int    `mapstructure:"db"`
}

type JWTConfig struct {
    Secret      string `mapstructure:"secret"`
    ExpireHours int    `mapstructure:"expire_hours"`
}

// ExpireDuration 令牌有效期
func (j JWTConfig) ExpireDuration() time.Duration {
    return time.Duration(j.ExpireHours) * time.Hour
}

// FeedConfig Feed流配置
type FeedConfig struct {
    // 推模式粉丝数阈值（小于等于此值使用推模式）
    PushFanThreshold int64 `mapstructure:"push_fan_threshold"`
    // 拉模式粉丝数阈值（大于等于此值使用拉模式）
    PullFanThreshold int64 `mapstructure:"pull_fan_threshold"`
    // Feed流缓存时长（秒）
    CacheTTL int64 `mapstructure:"cache_ttl"`
    // Feed流最大长度
    MaxFeedSize int64 `mapstructure:"max_feed_size"`
    // 单次拉取Feed数量
    PageSize int `mapstructure:"page_size"`
}

// CacheTTLDuration 缓存时长
func (f FeedConfig) CacheTTLDuration() time.Duration {
    return time.Duration(f.CacheTTL) * time.Second
}

// DispatchConfig 异步分发配置
type DispatchConfig struct {
    Workers   int `mapstructure:"workers"`
    QueueSize int `mapstructure:"queue_size"`
}

type SentryConfig struct {
    DSN string `mapstructure:"dsn"`
}

type TraceConfig struct {
    Enabled  bool   `mapstructure:"enabled"`
    Endpoint string `mapstructure:"endpoint"`
}

func setDefaults(v *viper.Viper) {
    v.SetDefault("server.port", 8080)
    v.SetDefault("server.mode", "debug")

    v.SetDefault("database.host", "127.0.0.1")
    v.SetDefault("database.port", 5432)
    v.SetDefault("database.user", "postgres")
    v.SetDefault("database.password", "postgres")
    v.SetDefault("database.dbname", "feed")
    v.SetDefault("database.sslmode", "disable")

    v.SetDefault("redis.addr", "127.0.0.1:6379")
    v.SetDefault("redis.db", 0)

    v.SetDefault("jwt.secret", "feed-stream-dev-secret")
    v.SetDefault("jwt.expire_hours", 24)

    v.SetDefault("feed.push_fan_threshold", 1000)
    v.SetDefault("feed.pull_fan_threshold", 10000)
    v.SetDefault("feed.cache_ttl", 86400)
    v.SetDefault("feed.max_feed_size", 1000)
    v.SetDefault("feed.page_size", 20)

    v.SetDefault("dispatch.workers", 4)
    v.SetDefault("dispatch.queue_size", 1000)

    v.SetDefault("trace.enabled", false)
    v.SetDefault("trace.endpoint", "127.0.0.1:4318")
}

// Load 读取配置文件与环境变量，环境变量前缀 FEED，如 FEED_SERVER_PORT
func Load() (*Config, error) {
    v := viper.New()
    setDefaults(v)

    v.SetConfigName("config")
    v.SetConfigType("yaml")
    v.AddConfigPath(".")
    v.AddConfigPath("./config")

    v.SetEnvPrefix("FEED")
    v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
    v.AutomaticEnv()

    if err := v.ReadInConfig(); err != nil {
        // 配置文件缺失时仅用默认值 + 环境变量
        if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
            return nil, fmt.Errorf("read config: %w", err)
        }
    }

    var cfg Config
    if err := v.Unmarshal(&cfg); err != nil {
        return nil, fmt.Errorf("unmarshal config: %w", err)
    }
    return &cfg, nil
}
