package logctx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestFromCtx_EnrichesFromValues(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	base := zap.New(core).Sugar()

	ctx := WithUserID(WithTraceID(context.Background(), "t-1"), "u-1")
	FromCtx(ctx, base).Info("hello")

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	require.Equal(t, "t-1", fields["trace_id"])
	require.Equal(t, "u-1", fields["user_id"])
	require.Equal(t, "t-1", TraceID(ctx))
}

func TestFromCtx_PrefersAttachedLogger(t *testing.T) {
	attached := zap.NewNop().Sugar()
	ctx := WithLogger(context.Background(), attached)
	require.Same(t, attached, FromCtx(ctx, zap.NewExample().Sugar()))
}
