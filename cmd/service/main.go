// cmd/service/main.go
package main

import (
	"context"
	"io"
	"log/slog"
	"os"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		slog.Error("Application error", "error", err)
		os.Exit(1)
	}
}

// newLogger builds the structured JSON logger used by every component.
func newLogger(level string, w io.Writer) *slog.Logger {
	logLevel := new(slog.LevelVar)
	setLogLevel(level, logLevel)
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: logLevel})
	return slog.New(handler)
}

func setLogLevel(level string, v *slog.LevelVar) {
	switch level {
	case "debug":
		v.Set(slog.LevelDebug)
	case "warn":
		v.Set(slog.LevelWarn)
	case "error":
		v.Set(slog.LevelError)
	default:
		v.Set(slog.LevelInfo)
	}
}
