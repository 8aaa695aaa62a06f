package observability

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

type ctxKey string

const (
	ctxKeyRequestID ctxKey = "request_id"
	ctxKeyChatID    ctxKey = "chat_id"
)

// basic global logger, JSON to stdout. Setup replaces it at startup.
var logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))

// Setup configures the global logger. level is debug|info|warn|error and
// format is json or text; unknown values fall back to info and json.
func Setup(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	var h slog.Handler
	if strings.EqualFold(format, "text") {
		h = slog.NewTextHandler(w, opts)
	} else {
		h = slog.NewJSONHandler(w, opts)
	}

	logger = slog.New(h)
	slog.SetDefault(logger)
	return logger
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func Logger() *slog.Logger {
	return logger
}

// WithFields returns a logger with additional fields.
func WithFields(kv ...any) *slog.Logger {
	return logger.With(kv...)
}

// WithRequestID stores a request_id in the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestID, requestID)
}

// WithChatID stores the chat the current message belongs to.
func WithChatID(ctx context.Context, chatID string) context.Context {
	return context.WithValue(ctx, ctxKeyChatID, chatID)
}

// LoggerFromContext adds request_id and chat_id if present.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	l := logger
	if reqID, _ := ctx.Value(ctxKeyRequestID).(string); reqID != "" {
		l = l.With("request_id", reqID)
	}
	if chatID, _ := ctx.Value(ctxKeyChatID).(string); chatID != "" {
		l = l.With("chat_id", chatID)
	}
	return l
}
