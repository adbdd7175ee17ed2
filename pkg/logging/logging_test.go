package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestInitLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	InitLogger("info", "json", zapcore.AddSync(&buf))
	t.Cleanup(func() { InitLogger("", "", nil) })

	logger := ForComponent(nil, "cracker")
	logger.Debug("hidden")
	logger.Info("run finished", "matches", 2)

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "run finished", entry["msg"])
	assert.Equal(t, "cracker", entry["component"])
	assert.Equal(t, float64(2), entry["matches"])
}

func TestInitLoggerConsoleLevel(t *testing.T) {
	var buf bytes.Buffer
	InitLogger("WARN", "console", zapcore.AddSync(&buf))
	t.Cleanup(func() { InitLogger("", "", nil) })

	GetLogger().Info("quiet")
	GetLogger().Warn("loud", "candidate", "I,II,III/AAA")

	out := buf.String()
	assert.NotContains(t, out, "quiet")
	assert.Contains(t, out, "loud")
	assert.Contains(t, out, "I,II,III/AAA")
}
