package logger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestErrorCtxRecordsFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	Set(zap.New(core))
	t.Cleanup(func() { Set(zap.NewNop()) })

	ErrorCtx(context.Background(), errors.New("append failed"), zap.String("nxid", "PNX0000001"))
	Error(nil)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "append failed", entries[0].Message)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	assert.Equal(t, "PNX0000001", entries[0].ContextMap()["nxid"])
	assert.Equal(t, "error occurred", entries[1].Message)
}

func TestInitializeWithoutSentry(t *testing.T) {
	require.NoError(t, Initialize(Config{Debug: true}))
	t.Cleanup(func() { Set(zap.NewNop()) })

	assert.NotNil(t, Default())
	assert.Nil(t, sentryClient)
	assert.NotNil(t, StdLog())
}
