package main

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/adampresley/imagesearch/cmd/imagesearch/internal/configuration"
	"gopkg.in/natefinch/lumberjack.v2"
)

/*
setupLogger installs the default logger. Development builds log text to
stdout. Release builds log JSON, to a rotated file when one is
configured.
*/
func setupLogger(config *configuration.Config, version string) {
	var (
		handler slog.Handler
		out     io.Writer = os.Stdout
	)

	options := &slog.HandlerOptions{
		Level: parseLogLevel(config.LogLevel),
	}

	if config.LogFile != "" {
		out = &lumberjack.Logger{
			Filename:   config.LogFile,
			MaxSize:    config.LogMaxSizeMB,
			MaxBackups: 3,
			Compress:   true,
		}
	}

	if version == "development" {
		handler = slog.NewTextHandler(out, options)
	} else {
		handler = slog.NewJSONHandler(out, options)
	}

	slog.SetDefault(slog.New(handler).With("version", version))
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug

	case "warn", "warning":
		return slog.LevelWarn

	case "error":
		return slog.LevelError
	}

	return slog.LevelInfo
}
