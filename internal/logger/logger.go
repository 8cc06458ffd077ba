package logger

import (
	"log/slog"
	"os"
)

var (
	levelVar      slog.LevelVar
	defaultLogger *slog.Logger
)

func init() {
	if os.Getenv("DEBUG") == "true" {
		levelVar.Set(slog.LevelDebug)
	} else {
		levelVar.Set(slog.LevelInfo)
	}

	defaultLogger = slog.New(
		slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: &levelVar}),
	)
}

func Default() *slog.Logger {
	return defaultLogger
}

func Debug(msg string, args ...any) {
	defaultLogger.Debug(msg, args...)
}

func Info(msg string, args ...any) {
	defaultLogger.Info(msg, args...)
}

func Warn(msg string, args ...any) {
	defaultLogger.Warn(msg, args...)
}

func Error(msg string, args ...any) {
	defaultLogger.Error(msg, args...)
}

func SetLevel(level slog.Level) {
	levelVar.Set(level)
}
