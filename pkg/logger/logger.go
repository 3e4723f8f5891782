package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// Config 建立 logger 所需的設定
type Config struct {
	Level  string // debug / info / warn / error, 空字串視為 info
	Format string // json / console, 空字串視為 json
}

// New 依設定建立 zap logger
//
// 參數:
//
//	cfg: Config - 等級與輸出格式
//
// 回傳值:
//
//	*zap.Logger: 建立好的 logger
//	error: 等級或格式不合法
func New(cfg Config) (*zap.Logger, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	var zc zap.Config
	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "", FormatJSON:
		zc = zap.NewProductionConfig()
		zc.Encoding = FormatJSON
	case FormatConsole:
		zc = zap.NewDevelopmentConfig()
		zc.Encoding = FormatConsole
	default:
		return nil, fmt.Errorf("invalid log format %q", cfg.Format)
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zc.DisableStacktrace = true

	built, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return built, nil
}

func parseLevel(raw string) (zapcore.Level, error) {
	if strings.TrimSpace(raw) == "" {
		return zapcore.InfoLevel, nil
	}
	var level zapcore.Level
	if err := level.Set(raw); err != nil {
		return level, fmt.Errorf("invalid log level %q: %w", raw, err)
	}
	return level, nil
}
