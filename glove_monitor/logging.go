package main

import (
	"log/slog"

	"gopkg.in/natefinch/lumberjack.v2"
)

// setupLogging sends structured logs to a rotated file. The terminal is
// owned by tcell, so nothing may log to stdout once the screen is up.
func setupLogging(logFile string, debug bool) *lumberjack.Logger {
	rotator := &lumberjack.Logger{
		Filename: logFile,
		MaxSize:  10, // megabytes
		MaxAge:   30, // days
	}

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	handler := slog.NewJSONHandler(rotator, &slog.HandlerOptions{
		Level:     level,
		AddSource: debug,
	})
	slog.SetDefault(slog.New(handler))
	return rotator
}
