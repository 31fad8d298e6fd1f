package logging

import (
	"context"
	"log/slog"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewSlog adapts the zap-backed logger to the slog API consumed by the
// HTTP layer.
func NewSlog(logger *Logger) *slog.Logger {
	if logger == nil {
		logger = Default()
	}
	return slog.New(&zapSlogHandler{zap: logger.Zap()})
}

type zapSlogHandler struct {
	zap   *zap.Logger
	attrs []zap.Field
	group string
}

func (h *zapSlogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.zap.Core().Enabled(slogLevelToZap(level))
}

func (h *zapSlogHandler) Handle(_ context.Context, record slog.Record) error {
	fields := make([]zap.Field, 0, record.NumAttrs()+len(h.attrs))
	fields = append(fields, h.attrs...)
	record.Attrs(func(attr slog.Attr) bool {
		fields = append(fields, h.attrToField(attr))
		return true
	})

	if ce := h.zap.Check(slogLevelToZap(record.Level), record.Message); ce != nil {
		ce.Write(fields...)
	}
	return nil
}

func (h *zapSlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := &zapSlogHandler{
		zap:   h.zap,
		attrs: make([]zap.Field, 0, len(h.attrs)+len(attrs)),
		group: h.group,
	}
	next.attrs = append(next.attrs, h.attrs...)
	for _, attr := range attrs {
		next.attrs = append(next.attrs, h.attrToField(attr))
	}
	return next
}

func (h *zapSlogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	prefix := name
	if h.group != "" {
		prefix = h.group + "." + name
	}
	return &zapSlogHandler{zap: h.zap, attrs: h.attrs, group: prefix}
}

func (h *zapSlogHandler) attrToField(attr slog.Attr) zap.Field {
	key := attr.Key
	if h.group != "" {
		key = h.group + "." + key
	}
	return zap.Any(key, attr.Value.Resolve().Any())
}

func slogLevelToZap(level slog.Level) zapcore.Level {
	switch {
	case level >= slog.LevelError:
		return zapcore.ErrorLevel
	case level >= slog.LevelWarn:
		return zapcore.WarnLevel
	case level >= slog.LevelInfo:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}
