package logger

import (
	"io"
	"log/slog"
	"os"
)

var log *slog.Logger

// Init sets up the global logger. "development" gets a debug-level text
// handler, anything else a JSON handler at info level.
func Init(env string) {
	InitWriter(env, os.Stdout)
}

func InitWriter(env string, w io.Writer) {
	var handler slog.Handler

	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	if env == "development" {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	log = slog.New(handler)
	slog.SetDefault(log)
}

func GetLogger() *slog.Logger {
	if log == nil {
		Init("development")
	}
	return log
}

func Debug(msg string, args ...any) {
	GetLogger().Debug(msg, args...)
}

func Info(msg string, args ...any) {
	GetLogger().Info(msg, args...)
}

func Warn(msg string, args ...any) {
	GetLogger().Warn(msg, args...)
}

func Error(msg string, args ...any) {
	GetLogger().Error(msg, args...)
}

// Fatal logs at error level and exits.
func Fatal(msg string, args ...any) {
	GetLogger().Error(msg, args...)
	os.Exit(1)
}

// With returns a child logger carrying the given attributes,
// e.g. logger.With("offer_id", id).Info("status changed").
func With(args ...any) *slog.Logger {
	return GetLogger().With(args...)
}
