package logger

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

var Log *slog.Logger

// Init initializes the global slog logger. Level and format normally come
// from config; POSTVIEW_LOG_LEVEL and POSTVIEW_LOG_SINK env vars override
// them for tests and production tweaks. Format is "text" or "json".
func Init(level, format string) {
	lvl := strings.ToLower(strings.TrimSpace(os.Getenv("POSTVIEW_LOG_LEVEL")))
	if lvl == "" {
		lvl = strings.ToLower(strings.TrimSpace(level))
	}
	var lv slog.Level
	switch lvl {
	case "debug":
		lv = slog.LevelDebug
	case "warn", "warning":
		lv = slog.LevelWarn
	case "error":
		lv = slog.LevelError
	default:
		lv = slog.LevelInfo
	}

	out := os.Stdout
	sink := os.Getenv("POSTVIEW_LOG_SINK") // e.g. "file:/path/to/log"
	if strings.HasPrefix(sink, "file:") {
		path := strings.TrimPrefix(sink, "file:")
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open log file %s: %v\n", path, err)
		} else {
			out = f
		}
	}

	opts := &slog.HandlerOptions{Level: lv}
	if strings.EqualFold(strings.TrimSpace(format), "json") {
		Log = slog.New(slog.NewJSONHandler(out, opts))
		return
	}
	Log = slog.New(slog.NewTextHandler(out, opts))
}

// Debug logs with slog-style key/value pairs.
func Debug(msg string, args ...any) {
	if Log == nil {
		return
	}
	Log.Debug(msg, args...)
}

// Info logs with slog-style key/value pairs.
func Info(msg string, args ...any) {
	if Log == nil {
		return
	}
	Log.Info(msg, args...)
}

// Warn logs with slog-style key/value pairs.
func Warn(msg string, args ...any) {
	if Log == nil {
		return
	}
	Log.Warn(msg, args...)
}

// Error logs with slog-style key/value pairs.
func Error(msg string, args ...any) {
	if Log == nil {
		return
	}
	Log.Error(msg, args...)
}
