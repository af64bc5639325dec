// Package logger provides the structured logging abstraction used across the
// service. Call sites depend on Logger and Field only; the backend is slog.
package logger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Level is a log severity. The values line up with slog's so the backend
// can convert without a lookup.
type Level slog.Level

const (
	LevelDebug = Level(slog.LevelDebug)
	LevelInfo  = Level(slog.LevelInfo)
	LevelWarn  = Level(slog.LevelWarn)
	LevelError = Level(slog.LevelError)
)

func (l Level) String() string {
	return strings.ToLower(slog.Level(l).String())
}

// ParseLevel maps config strings to a Level. Unknown input means info.
func ParseLevel(s string) Level {
	var lvl slog.Level
	in := strings.TrimSpace(s)
	if strings.EqualFold(in, "warning") {
		in = "warn"
	}
	if err := lvl.UnmarshalText([]byte(in)); err != nil {
		return LevelInfo
	}
	return Level(lvl)
}

// Field is one structured key/value pair on a log entry.
type Field = slog.Attr

func String(key, value string) Field                 { return slog.String(key, value) }
func Int(key string, value int) Field                { return slog.Int(key, value) }
func Int64(key string, value int64) Field            { return slog.Int64(key, value) }
func Float64(key string, value float64) Field        { return slog.Float64(key, value) }
func Bool(key string, value bool) Field              { return slog.Bool(key, value) }
func Duration(key string, value time.Duration) Field { return slog.Duration(key, value) }
func Time(key string, value time.Time) Field         { return slog.Time(key, value) }
func Any(key string, value any) Field                { return slog.Any(key, value) }

// Stringer logs v.String(), e.g. decimals and dates.
func Stringer(key string, v fmt.Stringer) Field {
	return slog.String(key, v.String())
}

// Err logs err under "error"; a nil error logs as null.
func Err(err error) Field {
	if err == nil {
		return slog.Any("error", nil)
	}
	return slog.String("error", err.Error())
}

// Logger is the logging interface handed to every layer.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// With returns a child Logger that adds fields to every entry.
	With(fields ...Field) Logger
	// WithContext returns a child Logger carrying the request and user ids
	// found in ctx.
	WithContext(ctx context.Context) Logger

	Level() Level
}

// Config selects the minimum level, the "json" or "text" encoding and an
// optional rotated file copy.
type Config struct {
	Level     Level
	Format    string
	AddSource bool

	// File, when set, receives a copy of every entry and is rotated by size.
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// DefaultConfig is JSON at info level on stdout.
func DefaultConfig() Config {
	return Config{
		Level:      LevelInfo,
		Format:     "json",
		MaxSizeMB:  50,
		MaxBackups: 5,
		MaxAgeDays: 28,
	}
}

var defaultLogger Logger

// SetDefault replaces the package-level logger used by Default and the
// Debug/Info/Warn/Error shorthands.
func SetDefault(l Logger) {
	defaultLogger = l
}

// Default returns the default global logger, creating a stdout JSON logger on
// first use.
func Default() Logger {
	if defaultLogger == nil {
		defaultLogger = NewSlogLogger(DefaultConfig())
	}
	return defaultLogger
}

func Debug(msg string, fields ...Field) { Default().Debug(msg, fields...) }
func Info(msg string, fields ...Field)  { Default().Info(msg, fields...) }
func Warn(msg string, fields ...Field)  { Default().Warn(msg, fields...) }
func Error(msg string, fields ...Field) { Default().Error(msg, fields...) }
