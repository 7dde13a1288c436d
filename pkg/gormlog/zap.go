package gormlog

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/gorm/utils"

	"github.com/fatflowers/vcard/pkg/logctx"
)

// ZapLogger routes gorm logs through the request-scoped zap logger so SQL
// lines carry trace_id and user_id.
type ZapLogger struct {
	base          *zap.SugaredLogger
	level         gormlogger.LogLevel
	slowThreshold time.Duration
}

// New returns a logger at Warn level; SQL traces are only emitted at Info.
func New(base *zap.SugaredLogger) *ZapLogger {
	return &ZapLogger{base: base, level: gormlogger.Warn, slowThreshold: 500 * time.Millisecond}
}

// LevelFor maps an application log level name to a gorm level.
func LevelFor(name string) gormlogger.LogLevel {
	switch strings.ToLower(name) {
	case "debug":
		return gormlogger.Info
	case "error":
		return gormlogger.Error
	case "silent":
		return gormlogger.Silent
	}
	return gormlogger.Warn
}

func (z *ZapLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	cp := *z
	cp.level = level
	return &cp
}

func (z *ZapLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if z.level >= gormlogger.Info {
		logctx.FromCtx(ctx, z.base).Infow(msg, "args", data)
	}
}

func (z *ZapLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if z.level >= gormlogger.Warn {
		logctx.FromCtx(ctx, z.base).Warnw(msg, "args", data)
	}
}

func (z *ZapLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if z.level >= gormlogger.Error {
		logctx.FromCtx(ctx, z.base).Errorw(msg, "args", data)
	}
}

func (z *ZapLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if z.level == gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	lg := logctx.FromCtx(ctx, z.base)
	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && z.level >= gormlogger.Error:
		sql, rows := fc()
		lg.Errorw("gorm_error", "err", err, "sql", sql, "rows", rows, "elapsed_ms", elapsed.Milliseconds(), "caller", shortCaller(utils.FileWithLineNum()))
	case z.slowThreshold > 0 && elapsed > z.slowThreshold && z.level >= gormlogger.Warn:
		sql, rows := fc()
		lg.Warnw("gorm_slow", "sql", sql, "rows", rows, "elapsed_ms", elapsed.Milliseconds(), "caller", shortCaller(utils.FileWithLineNum()))
	case z.level >= gormlogger.Info:
		sql, rows := fc()
		lg.Debugw("gorm", "sql", sql, "rows", rows, "elapsed_ms", elapsed.Milliseconds())
	}
}

// shortCaller trims a build path to the part under cmd/, internal/ or pkg/.
func shortCaller(s string) string {
	p := filepath.ToSlash(s)
	for _, marker := range []string{"/internal/", "/pkg/", "/cmd/"} {
		if i := strings.Index(p, marker); i >= 0 {
			return p[i+1:]
		}
	}
	if parts := strings.Split(p, "/"); len(parts) > 3 {
		return strings.Join(parts[len(parts)-3:], "/")
	}
	return strings.TrimPrefix(p, "/")
}
