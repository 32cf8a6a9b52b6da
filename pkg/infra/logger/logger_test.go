package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
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

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestNewLogger_WritesJSONToFile(t *testing.T) {
	dir := t.TempDir()
	logger, closeFn, err := NewLogger(Options{Component: "sweeper", Dir: dir, Level: "debug"})
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())

	logger.WithField("policy", "notification.comments").Info("batch dispatched")
	closeFn()

	data, err := os.ReadFile(filepath.Join(dir, "sweeper.log"))
	require.NoError(t, err)

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &line))
	assert.Equal(t, "batch dispatched", line["msg"])
	assert.Equal(t, "notification.comments", line["policy"])
	assert.Equal(t, "info", line["level"])
	assert.Contains(t, line, "time")
}

func TestNewLogger_InvalidComponent(t *testing.T) {
	_, _, err := NewLogger(Options{Component: "../escape", Dir: t.TempDir()})
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, logrus.WarnLevel, parseLevel("warn"))
	assert.Equal(t, logrus.InfoLevel, parseLevel("nonsense"))

	t.Setenv("LOG_LEVEL", "debug")
	assert.Equal(t, logrus.DebugLevel, parseLevel(""))
}

func TestAsyncConsoleHook(t *testing.T) {
	out := &syncBuffer{}
	hook := NewAsyncConsoleHook(out, 10)

	logger := NewNopLogger()
	logger.AddHook(hook)
	logger.Warn("store slow")
	hook.Close()
	hook.Close()

	assert.True(t, strings.Contains(out.String(), "store slow"))
}
