package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"

	logFileName = "heretohelp.log"
)

func SetupLogger(env, logPath string) *slog.Logger {
	var logger *slog.Logger

	switch env {
	case envLocal:
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envDev:
		logger = slog.New(slog.NewJSONHandler(writer(logPath), &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		logger = slog.New(slog.NewJSONHandler(writer(logPath), &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}

	return logger
}

// writer duplicates output into a file under logPath when it is writable.
func writer(logPath string) io.Writer {
	if logPath == "" {
		return os.Stdout
	}
	f, err := os.OpenFile(filepath.Join(logPath, logFileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "log file: %v; logging to stdout only\n", err)
		return os.Stdout
	}
	return io.MultiWriter(os.Stdout, f)
}

// MessageSender delivers a plain text alert, e.g. to an ops chat.
type MessageSender interface {
	SendMessage(msg string)
}

// TelegramHandler passes every record to the wrapped handler and forwards
// records at or above minLevel to the sender.
type TelegramHandler struct {
	slog.Handler
	sender   MessageSender
	minLevel slog.Level
	attrs    []slog.Attr
}

// SetupTelegramHandler wraps the logger so that errors also reach the ops chat.
func SetupTelegramHandler(log *slog.Logger, sender MessageSender, minLevel slog.Level) *slog.Logger {
	if sender == nil {
		return log
	}
	return slog.New(&TelegramHandler{
		Handler:  log.Handler(),
		sender:   sender,
		minLevel: minLevel,
	})
}

func (h *TelegramHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= h.minLevel {
		h.sender.SendMessage(format(r, h.attrs))
	}
	return h.Handler.Handle(ctx, r)
}

func (h *TelegramHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &TelegramHandler{
		Handler:  h.Handler.WithAttrs(attrs),
		sender:   h.sender,
		minLevel: h.minLevel,
		attrs:    merged,
	}
}

func (h *TelegramHandler) WithGroup(name string) slog.Handler {
	return &TelegramHandler{
		Handler:  h.Handler.WithGroup(name),
		sender:   h.sender,
		minLevel: h.minLevel,
		attrs:    h.attrs,
	}
}

func format(r slog.Record, attrs []slog.Attr) string {
	var b strings.Builder
	b.WriteString(r.Level.String())
	b.WriteString(": ")
	b.WriteString(r.Message)
	for _, a := range attrs {
		fmt.Fprintf(&b, "\n%s: %s", a.Key, a.Value.String())
	}
	r.Attrs(func(a slog.Attr) bool {
		fmt.Fprintf(&b, "\n%s: %s", a.Key, a.Value.String())
		return true
	})
	return b.String()
}
