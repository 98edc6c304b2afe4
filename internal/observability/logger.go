package observability

import (
	"context"
	"fmt"
	"strings"

	"github.com/upb/yamdb/internal/requestmeta"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds a zap logger. Format "console" gives the human readable
// development encoder, anything else the JSON production encoder.
func NewLogger(level, format string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	var cfg zap.Config
	if strings.EqualFold(format, "console") {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	return cfg.Build()
}

// WithRequest returns logger annotated with the request id, client ip and
// user agent carried in ctx, if any.
func WithRequest(ctx context.Context, logger *zap.Logger) *zap.Logger {
	meta, ok := requestmeta.From(ctx)
	if !ok {
		return logger
	}
	fields := make([]zap.Field, 0, 3)
	if meta.RequestID != "" {
		fields = append(fields, zap.String("request_id", meta.RequestID))
	}
	if meta.IPAddress != "" {
		fields = append(fields, zap.String("remote_ip", meta.IPAddress))
	}
	if meta.UserAgent != "" {
		fields = append(fields, zap.String("user_agent", meta.UserAgent))
	}
	return logger.With(fields...)
}
