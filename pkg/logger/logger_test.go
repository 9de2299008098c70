package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestReplace_KeyValues(t *testing.T) {
	prev := GetLogger()
	t.Cleanup(func() { zapLogger = prev })

	core, logs := observer.New(zapcore.DebugLevel)
	Replace(core)

	Info("bill checked", "customer_number", "5300", "source", "ledger")
	With("worker", 2).Warn("slow job")

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)
	assert.Equal(t, "bill checked", entries[0].Message)
	assert.Equal(t, map[string]any{"customer_number": "5300", "source": "ledger"}, entries[0].ContextMap())
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, int64(2), entries[1].ContextMap()["worker"])
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("LOG_ENV", "production")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("APP_NAME", "ppob_gateway")

	cfg := configFromEnv()
	assert.Equal(t, zap.WarnLevel, cfg.Level.Level())
	assert.Equal(t, "json", cfg.Encoding)
	assert.Equal(t, "ppob_gateway", cfg.InitialFields["app"])
}
