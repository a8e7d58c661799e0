package main

import (
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
)

// setupLogger writes everything to stdout and, in addition, errors only to
// errorFile.
func setupLogger(env, errorFile string) *slog.Logger {
	level := slog.LevelDebug
	if env == envProd {
		level = slog.LevelInfo
	}

	var coreHandler slog.Handler
	switch env {
	case envDev:
		coreHandler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	default:
		coreHandler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}

	file, err := os.OpenFile(errorFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
	if err != nil {
		logger := slog.New(coreHandler)
		logger.Warn("cannot open error log file", slog.String("path", errorFile), slog.String("error", err.Error()))
		return logger
	}

	errorHandler := slog.NewTextHandler(file, &slog.HandlerOptions{Level: slog.LevelError})

	return slog.New(slogmulti.Fanout(coreHandler, errorHandler))
}
