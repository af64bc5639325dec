package logger

import (
	"context"
	"errors"
	"fmt"
	"time"

	gormlogger "gorm.io/gorm/logger"
)

// gormAdapter routes gorm's query log through Logger.
type gormAdapter struct {
	log           Logger
	level         gormlogger.LogLevel
	slowThreshold time.Duration
}

// NewGormLogger adapts l for gorm.Config.Logger. Queries slower than
// slowThreshold are logged at warn level.
func NewGormLogger(l Logger, level gormlogger.LogLevel, slowThreshold time.Duration) gormlogger.Interface {
	return &gormAdapter{log: l, level: level, slowThreshold: slowThreshold}
}

// GormLevel maps a config string onto gorm's log levels.
func GormLevel(s string) gormlogger.LogLevel {
	switch s {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}

func (a *gormAdapter) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *a
	clone.level = level
	return &clone
}

func (a *gormAdapter) Info(ctx context.Context, msg string, args ...interface{}) {
	if a.level >= gormlogger.Info {
		Ctx(ctx).Info(fmt.Sprintf(msg, args...), String("component", "gorm"))
	}
}

func (a *gormAdapter) Warn(ctx context.Context, msg string, args ...interface{}) {
	if a.level >= gormlogger.Warn {
		Ctx(ctx).Warn(fmt.Sprintf(msg, args...), String("component", "gorm"))
	}
}

func (a *gormAdapter) Error(ctx context.Context, msg string, args ...interface{}) {
	if a.level >= gormlogger.Error {
		Ctx(ctx).Error(fmt.Sprintf(msg, args...), String("component", "gorm"))
	}
}

func (a *gormAdapter) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if a.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	log := Ctx(ctx)
	switch {
	case err != nil && a.level >= gormlogger.Error && !errors.Is(err, gormlogger.ErrRecordNotFound):
		sql, rows := fc()
		log.Error("query failed",
			Err(err),
			String("sql", sql),
			Int64("rows", rows),
			Duration("elapsed", elapsed),
		)
	case a.slowThreshold > 0 && elapsed > a.slowThreshold && a.level >= gormlogger.Warn:
		sql, rows := fc()
		log.Warn("slow query",
			String("sql", sql),
			Int64("rows", rows),
			Duration("elapsed", elapsed),
			Duration("threshold", a.slowThreshold),
		)
	case a.level >= gormlogger.Info:
		sql, rows := fc()
		log.Debug("query",
			String("sql", sql),
			Int64("rows", rows),
			Duration("elapsed", elapsed),
		)
	}
}
