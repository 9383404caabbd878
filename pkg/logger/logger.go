package logger

import (
    "go.uber.org/zap"
    "go.uber.org/zap/zapcore"
)

var l = zap.NewNop()

// Init 初始化全局日志器；mode 为 release 时输出 JSON
func Init(mode string) error {
    var cfg zap.Config
    if mode == "release" {
        cfg = zap.NewProductionConfig()
    } else {
        cfg = zap.NewDevelopmentConfig()
        cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
    }
    logger, err := cfg.Build(zap.AddCallerSkip(1))
    if err != nil {
        return err
    }
    l = logger
    return nil
}

// L 返回底层 zap.Logger（中间件等需要原始实例时使用）
func L() *zap.Logger { return l }

func Debug(msg string, fields ...zap.Field) { l.Debug(msg, fields...) }
func Info(msg string, fields ...zap.Field)  { l.Info(msg, fields...) }
func Warn(msg string, fields ...zap.Field)  { l.Warn(msg, fields...) }
func Error(msg string, fields ...zap.Field) { l.Error(msg, fields...) }

// Sync 刷新缓冲日志，进程退出前调用
func Sync() { _ = l.Sync() }
