// Package logging provides centralized structured logging with an optional
// Sentry bridge.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
)

// Config holds logging configuration.
type Config struct {
	Level       string // debug, info, warn, error
	SentryDSN   string // empty disables the Sentry bridge
	Environment string
	Version     string
}

var (
	defaultLogger = slog.New(slog.NewTextHandler(os.Stdout, nil))
	sentryEnabled bool
)

// Init configures the global logger. With a Sentry DSN set, warn and error
// records are also forwarded to Sentry as events.
func Init(cfg Config) error {
	if cfg.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.SentryDSN,
			Environment: cfg.Environment,
			Release:     cfg.Version,
		})
		if err != nil {
			return fmt.Errorf("sentry init: %w", err)
		}
		sentryEnabled = true
	}

	SetupLogger(os.Stdout, cfg.Level)
	return nil
}

// SetupLogger configures the logger with the specified output and level.
func SetupLogger(w io.Writer, level string) {
	var handler slog.Handler = slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: parseLevel(level),
	})
	if sentryEnabled {
		handler = &sentryHandler{Handler: handler}
	}

	defaultLogger = slog.New(handler)
	slog.SetDefault(defaultLogger)
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// Flush drains buffered Sentry events. Call before shutdown.
func Flush(timeout time.Duration) {
	if sentryEnabled {
		sentry.Flush(timeout)
	}
}

// sentryHandler wraps an slog.Handler and forwards warn and error records
// to Sentry.
type sentryHandler struct {
	slog.Handler
}

func (h *sentryHandler) Handle(ctx context.Context, r slog.Record) error {
	if err := h.Handler.Handle(ctx, r); err != nil {
		return err
	}
	if r.Level >= slog.LevelWarn {
		forwardToSentry(r)
	}
	return nil
}

func (h *sentryHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &sentryHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *sentryHandler) WithGroup(name string) slog.Handler {
	return &sentryHandler{Handler: h.Handler.WithGroup(name)}
}

func forwardToSentry(r slog.Record) {
	event := sentry.NewEvent()
	event.Level = sentryLevel(r.Level)
	event.Message = r.Message
	event.Timestamp = r.Time
	r.Attrs(func(a slog.Attr) bool {
		event.Extra[a.Key] = a.Value.Any()
		return true
	})
	sentry.CaptureEvent(event)
}

func sentryLevel(level slog.Level) sentry.Level {
	if level >= slog.LevelError {
		return sentry.LevelError
	}
	return sentry.LevelWarning
}

// Debug logs a message at debug level.
func Debug(msg string, args ...any) {
	defaultLogger.Debug(msg, args...)
}

// Info logs a message at info level.
func Info(msg string, args ...any) {
	defaultLogger.Info(msg, args...)
}

// Warn logs a message at warn level.
func Warn(msg string, args ...any) {
	defaultLogger.Warn(msg, args...)
}

// Error logs a message at error level.
func Error(msg string, args ...any) {
	defaultLogger.Error(msg, args...)
}

// With returns a logger carrying the given attributes.
func With(args ...any) *slog.Logger {
	return defaultLogger.With(args...)
}

// GetLogger returns the default logger.
func GetLogger() *slog.Logger {
	return defaultLogger
}

// MaskSensitive masks sensitive data for logging.
func MaskSensitive(value string) string {
	if value == "" {
		return "<not set>"
	}
	if len(value) <= 4 {
		return "<set>"
	}
	return value[:4] + "..." + strings.Repeat("*", 3)
}
