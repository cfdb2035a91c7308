// Package logger — тонкая обёртка над zap с key-value API.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Logger interface {
	Debug(msg string, fields ...any)
	Info(msg string, fields ...any)
	Warn(msg string, fields ...any)
	Error(msg string, fields ...any)
	With(fields ...any) Logger
	Sync() error
}

type Config struct {
	Level  string
	Format string
	Output string
}

type zapLogger struct {
	logger *zap.SugaredLogger
}

// New собирает production-логгер zap; при ошибке сборки откатывается на example-логгер.
func New(cfg Config) Logger {
	config := zap.NewProductionConfig()

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	config.Level = zap.NewAtomicLevelAt(level)

	if cfg.Format == "console" {
		config.Encoding = "console"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		config.Encoding = "json"
	}

	if cfg.Output != "" && cfg.Output != "stdout" {
		config.OutputPaths = []string{cfg.Output}
		config.ErrorOutputPaths = []string{cfg.Output}
	} else {
		config.OutputPaths = []string{"stdout"}
		config.ErrorOutputPaths = []string{"stderr"}
	}

	l, err := config.Build()
	if err != nil {
		l = zap.NewExample()
	}

	return &zapLogger{logger: l.Sugar()}
}

// NewNop возвращает логгер, который ничего не пишет; удобно для тестов.
func NewNop() Logger {
	return &zapLogger{logger: zap.NewNop().Sugar()}
}

// FromZap оборачивает готовый *zap.Logger (например, zaptest/observer в тестах).
func FromZap(l *zap.Logger) Logger {
	return &zapLogger{logger: l.Sugar()}
}

func (l *zapLogger) Debug(msg string, fields ...any) { l.logger.Debugw(msg, fields...) }

func (l *zapLogger) Info(msg string, fields ...any) { l.logger.Infow(msg, fields...) }

func (l *zapLogger) Warn(msg string, fields ...any) { l.logger.Warnw(msg, fields...) }

func (l *zapLogger) Error(msg string, fields ...any) { l.logger.Errorw(msg, fields...) }

func (l *zapLogger) With(fields ...any) Logger {
	return &zapLogger{logger: l.logger.With(fields...)}
}

func (l *zapLogger) Sync() error {
	return l.logger.Sync()
}
