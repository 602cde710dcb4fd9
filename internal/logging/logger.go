package logging

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// contextKey is the type for context keys
type contextKey string

// RequestIDKey is the context key for request IDs
const RequestIDKey contextKey = "request_id"

// Config holds logging configuration
type Config struct {
	Level  string // debug, info, warn, error
	Format string // json, text
	Output io.Writer
	// File, when set, receives a copy of every entry with size based rotation.
	File string
}

// New creates a zerolog logger with the given configuration
func New(cfg Config) zerolog.Logger {
	output := cfg.Output
	if output == nil {
		output = os.Stdout
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	if cfg.Format == "text" {
		// Pretty console output for development
		output = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: time.RFC3339,
		}
	}

	if cfg.File != "" {
		output = zerolog.MultiLevelWriter(output, &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    50, // megabytes
			MaxBackups: 5,
			MaxAge:     28, // days
			Compress:   true,
		})
	}

	return zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// SetGlobalLogger sets the global logger instance
func SetGlobalLogger(logger zerolog.Logger) {
	log.Logger = logger
}

// WithRequestID stores id on ctx for later log enrichment.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

// RequestID returns the request id carried by ctx, if any.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

// WithContext returns the global logger enriched with values from ctx
func WithContext(ctx context.Context) *zerolog.Logger {
	logger := log.With()

	if requestID := RequestID(ctx); requestID != "" {
		logger = logger.Str("request_id", requestID)
	}

	contextLogger := logger.Logger()
	return &contextLogger
}
