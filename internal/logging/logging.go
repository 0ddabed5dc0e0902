package logging

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Init configures the process-wide slog default: human-readable text in
// development, JSON otherwise. When filePath is set, output additionally
// goes to a size-rotated log file.
func Init(env, filePath string) *slog.Logger {
	var out io.Writer = os.Stdout
	if filePath != "" {
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   filePath,
			MaxSize:    50, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		})
	}

	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	var handler slog.Handler
	if env == "development" {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(out, opts)
	} else {
		handler = slog.NewJSONHandler(out, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
