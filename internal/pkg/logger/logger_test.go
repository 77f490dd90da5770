package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLogger_WritesStructuredFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewFromZap(zap.New(core))

	log.Info("Pedido criado.", map[string]interface{}{"order_id": int64(7)})
	log.Warn("Estoque baixo.", map[string]interface{}{"quantity": 1})
	log.Error("Falha no commit.", errors.New("conexão perdida"))

	entries := logs.All()
	assert.Len(t, entries, 3)
	assert.Equal(t, "Pedido criado.", entries[0].Message)
	assert.Equal(t, int64(7), entries[0].ContextMap()["order_id"])
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "conexão perdida", entries[2].ContextMap()["error"])
}

func TestZapLogger_WithAddsContext(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := NewFromZap(zap.New(core)).With(map[string]interface{}{"request_id": "abc"})

	log.Debug("ignorado", nil)
	log.Info("ok", nil)

	assert.Equal(t, 1, logs.Len())
	assert.Equal(t, "abc", logs.All()[0].ContextMap()["request_id"])
}

func TestNewLogger_UnknownLevelFallsBackToInfo(t *testing.T) {
	log := NewLogger("verbose")
	assert.NotNil(t, log)
}
