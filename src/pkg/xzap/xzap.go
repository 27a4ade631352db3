// Package xzap 封装 zap, 提供全局结构化日志
// 文件输出经 lumberjack 轮转, 可同时输出到控制台
package xzap

import (
	"context"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// Config 日志配置
type Config struct {
	Path       string `toml:"path" mapstructure:"path" json:"path"`                      // 日志文件路径, 空表示只输出控制台
	Level      string `toml:"level" mapstructure:"level" json:"level"`                   // debug/info/warn/error
	Console    bool   `toml:"console" mapstructure:"console" json:"console"`             // 是否同时输出到控制台
	MaxSize    int    `toml:"max_size" mapstructure:"max_size" json:"max_size"`          // 单个文件上限 (MB)
	MaxBackups int    `toml:"max_backups" mapstructure:"max_backups" json:"max_backups"` // 保留的轮转文件数
	MaxAge     int    `toml:"max_age" mapstructure:"max_age" json:"max_age"`             // 保留天数
	Compress   bool   `toml:"compress" mapstructure:"compress" json:"compress"`          // 轮转文件是否压缩
}

// SetUp 初始化全局 logger
// 返回构建好的 logger, 同时通过 zap.ReplaceGlobals 挂到全局
func SetUp(c Config) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if c.Level != "" {
		if err := level.UnmarshalText([]byte(c.Level)); err != nil {
			return nil, err
		}
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewJSONEncoder(encoderCfg)

	var cores []zapcore.Core
	if c.Path != "" {
		w := zapcore.AddSync(&lumberjack.Logger{
			Filename:   c.Path,
			MaxSize:    c.MaxSize,
			MaxBackups: c.MaxBackups,
			MaxAge:     c.MaxAge,
			Compress:   c.Compress,
		})
		cores = append(cores, zapcore.NewCore(encoder, w, level))
	}
	if c.Console || c.Path == "" {
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), level))
	}

	logger := zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	zap.ReplaceGlobals(logger)
	return logger, nil
}

// WithContext 取全局 logger
// ctx 预留给链路追踪字段注入
func WithContext(_ context.Context) *zap.Logger {
	return zap.L()
}
