package gormlog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestShortCaller(t *testing.T) {
	require.Equal(t, "internal/platform/db/db.go:38", shortCaller("/home/ci/repo/internal/platform/db/db.go:38"))
	require.Equal(t, "pkg/x/y.go:12", shortCaller(`/c/repo/project/pkg/x/y.go:12`))
	require.Equal(t, "b/c/d.go:1", shortCaller("/a/b/c/d.go:1"))
}

func TestTrace_SkipsRecordNotFound(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := New(zap.New(core).Sugar())
	sql := func() (string, int64) { return "SELECT 1", 0 }

	l.Trace(context.Background(), time.Now(), sql, gorm.ErrRecordNotFound)
	require.Zero(t, logs.Len())

	l.Trace(context.Background(), time.Now(), sql, errors.New("boom"))
	require.Equal(t, 1, logs.FilterMessage("gorm_error").Len())

	l.LogMode(gormlogger.Silent).Trace(context.Background(), time.Now(), sql, errors.New("boom"))
	require.Equal(t, 1, logs.Len())
}

func TestLevelFor(t *testing.T) {
	require.Equal(t, gormlogger.Info, LevelFor("DEBUG"))
	require.Equal(t, gormlogger.Warn, LevelFor("info"))
	require.Equal(t, gormlogger.Silent, LevelFor("silent"))
}
