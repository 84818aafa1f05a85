package logger_test

import (
	"context"
	"intake/pkg/logger"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSetup(t *testing.T) {
	ctx := context.Background()

	logger.Setup(logger.DevelopmentEnvironment)
	require.True(t, logger.IsDebug(ctx))

	logger.Setup(logger.ProductionEnvironment)
	require.False(t, logger.IsDebug(ctx))

	logger.Setup("staging")
	require.True(t, logger.IsDebug(ctx), "unknown environments fall back to development")
}

func TestSetLevel(t *testing.T) {
	ctx := context.Background()
	logger.Setup(logger.ProductionEnvironment)

	derived := logger.WithFields(ctx, zap.String("terminalID", "t1"))
	require.False(t, logger.IsDebug(derived))

	require.NoError(t, logger.SetLevel("debug"))
	require.True(t, logger.IsDebug(derived), "derived loggers follow the shared level")

	require.NoError(t, logger.SetLevel(""))
	require.True(t, logger.IsDebug(ctx))

	require.Error(t, logger.SetLevel("chatty"))
	require.True(t, logger.IsDebug(ctx))

	require.NoError(t, logger.SetLevel("warn"))
	require.False(t, logger.IsDebug(ctx))
}

func TestContextLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	ctx := logger.WithLogger(context.Background(), zap.New(core))

	ctx = logger.WithFields(ctx, zap.String("terminalID", "t1"))
	logger.Debug(ctx, "scan resolved", zap.String("code", "7501234567890"))
	logger.Info(ctx, "terminal mounted")
	logger.Warn(ctx, "camera busy")
	logger.Error(ctx, "lookup failed")

	entries := logs.All()
	require.Len(t, entries, 4)
	require.Equal(t, "scan resolved", entries[0].Message)
	require.Equal(t, zapcore.DebugLevel, entries[0].Level)
	require.Equal(t, zapcore.ErrorLevel, entries[3].Level)
	for _, e := range entries {
		require.Equal(t, "t1", e.ContextMap()["terminalID"])
	}
	require.Equal(t, "7501234567890", entries[0].ContextMap()["code"])
	require.Equal(t, 1, logs.FilterField(zap.String("code", "7501234567890")).Len())
}

func TestGetFallsBackToProcessLogger(t *testing.T) {
	logger.Setup(logger.DevelopmentEnvironment)
	require.Same(t, logger.Get(context.Background()), logger.Get(context.TODO()))

	custom := zap.NewExample()
	require.Same(t, custom, logger.Get(logger.WithLogger(context.Background(), custom)))
}

func TestNop(t *testing.T) {
	logger.Nop()
	ctx := context.Background()

	require.False(t, logger.IsDebug(ctx))
	require.NotPanics(t, func() {
		logger.Info(ctx, "discarded", zap.String("terminalID", "t1"))
		logger.Sync(ctx)
	})
}
