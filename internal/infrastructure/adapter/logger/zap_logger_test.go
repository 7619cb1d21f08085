package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/amirhossein-jamali/credit-ledger/internal/domain/port/core"
)

func TestZapLogger_LevelGating(t *testing.T) {
	obsCore, logs := observer.New(zap.DebugLevel)
	l := NewFromZap(zap.New(obsCore))

	l.SetLevel(core.LogLevelWarn)
	l.Debug("dropped", nil)
	l.Info("dropped", nil)
	l.Warn("kept", map[string]any{"user_id": uint64(42)})
	l.Error("kept too", map[string]any{"error": errors.New("boom")})

	require.Equal(t, 2, logs.Len())
	entries := logs.All()
	assert.Equal(t, "kept", entries[0].Message)
	assert.Equal(t, uint64(42), entries[0].ContextMap()["user_id"])
	assert.Equal(t, "boom", entries[1].ContextMap()["error"])
	assert.Equal(t, core.LogLevelWarn, l.GetLevel())
}

func TestNewZapLogger(t *testing.T) {
	l, err := NewZapLogger(Options{Production: true, Level: "debug", Encoding: "json"})
	require.NoError(t, err)
	assert.Equal(t, core.LogLevelDebug, l.GetLevel())
}

func TestNoopLogger(t *testing.T) {
	l := NewNoopLogger()
	l.SetLevel(core.LogLevelError)
	l.Info("ignored", map[string]any{"k": "v"})
	assert.Equal(t, core.LogLevelError, l.GetLevel())
	assert.NoError(t, l.Flush())
}
