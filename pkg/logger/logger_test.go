package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewFallsBackToInfo(t *testing.T) {
	log, err := New(Config{Level: "chatty", Encoding: "console", AppName: "custdir"})
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(zap.DebugLevel))
	assert.True(t, log.Core().Enabled(zap.InfoLevel))
}

func TestWithRequestID(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	base := zap.New(core)

	ctx := ContextWithRequestID(context.Background(), "req-1")
	ctx = ContextWithOperator(ctx, "till-3")
	WithRequestID(ctx, base).Info("customer created")

	entry := logs.All()[0]
	assert.Equal(t, "req-1", entry.ContextMap()["request_id"])
	assert.Equal(t, "till-3", entry.ContextMap()["operator"])
	assert.Equal(t, "till-3", Operator(ctx))

	assert.Same(t, base, WithRequestID(context.Background(), base))
	assert.Empty(t, Operator(nil))
}
