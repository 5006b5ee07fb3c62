package logger

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func TestNew_Development(t *testing.T) {
	log, err := New("development", nil)
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zap.DebugLevel))
}

func TestNew_ProductionTeesToSink(t *testing.T) {
	sink := &syncBuffer{}
	log, err := New("production", sink)
	require.NoError(t, err)

	log.Info("Shipping estimate computed", zap.String("provider", "Shippo"))
	log.Debug("dropped at info level")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(sink.buf.Bytes()), &entry))
	assert.Equal(t, "Shipping estimate computed", entry["msg"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "Shippo", entry["provider"])
	assert.Contains(t, entry, "timestamp")
}

func TestForRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.InfoLevel)
	base := zap.New(core)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	ForRequest(base, c).Info("no id")

	c.Set(RequestIDKey, "req-1")
	ForRequest(base, c).Info("with id")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Empty(t, entries[0].ContextMap())
	assert.Equal(t, "req-1", entries[1].ContextMap()[RequestIDKey])
}
