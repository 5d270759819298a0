package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_ConsoleOutput(t *testing.T) {
	opts := DefaultOptions()
	opts.ConsoleLevel = DebugLevel
	opts.ColorConsole = false

	var buf bytes.Buffer
	l, err := NewLoggerWithWriter(opts, &buf)
	require.NoError(t, err)

	l.Debugf("running %s", "docker ps")
	l.Successf("built %s", "abc123")
	_ = l.Sync()

	out := buf.String()
	assert.Contains(t, out, "[DEBUG]")
	assert.Contains(t, out, "running docker ps")
	assert.Contains(t, out, "[SUCCESS]")
	assert.Contains(t, out, "built abc123")
	assert.NotContains(t, out, "customlevel")
	assert.NotContains(t, out, "\x1b[")
}

func TestNewLogger_ConsoleLevelFilter(t *testing.T) {
	opts := DefaultOptions()
	opts.ConsoleLevel = WarnLevel
	opts.ColorConsole = false

	var buf bytes.Buffer
	l, err := NewLoggerWithWriter(opts, &buf)
	require.NoError(t, err)

	l.Infof("hidden")
	l.Warnf("shown")
	_ = l.Sync()

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestNewLogger_ColorAndContextPrefix(t *testing.T) {
	opts := DefaultOptions()
	opts.ColorConsole = true

	var buf bytes.Buffer
	l, err := NewLoggerWithWriter(opts, &buf)
	require.NoError(t, err)

	l.With("target", "local", "container", "abc123", "attempt", 2).Errorf("start failed")
	_ = l.Sync()

	out := buf.String()
	assert.Contains(t, out, "[T:local][C:abc123]")
	assert.Contains(t, out, colorRed+"[ERROR]"+colorReset)
	assert.Contains(t, out, "start failed attempt=2")
}

func TestNewLogger_FileOutput(t *testing.T) {
	logFilePath := filepath.Join(t.TempDir(), "test.log")
	opts := DefaultOptions()
	opts.ConsoleOutput = false
	opts.FileOutput = true
	opts.FileLevel = InfoLevel
	opts.LogFilePath = logFilePath

	l, err := NewLogger(opts)
	require.NoError(t, err)

	l.Infof("%s", "Test file message")
	l.Debugf("%s", "No debug in file")
	require.NoError(t, l.Sync())

	content, err := os.ReadFile(logFilePath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "Test file message")
	assert.NotContains(t, string(content), "No debug in file")

	firstLine := strings.SplitN(strings.TrimSpace(string(content)), "\n", 2)[0]
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(firstLine), &entry))
	assert.Equal(t, "INFO", entry["level"])
}

func TestNewLogger_FileOutputRequiresPath(t *testing.T) {
	opts := DefaultOptions()
	opts.FileOutput = true
	opts.LogFilePath = ""
	_, err := NewLogger(opts)
	assert.Error(t, err)
}

func TestNewLogger_NoOutputs(t *testing.T) {
	opts := DefaultOptions()
	opts.ConsoleOutput = false
	l, err := NewLogger(opts)
	require.NoError(t, err)
	l.Infof("dropped")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", DebugLevel, false},
		{"INFO", InfoLevel, false},
		{"", InfoLevel, false},
		{"warning", WarnLevel, false},
		{"Success", SuccessLevel, false},
		{"error", ErrorLevel, false},
		{"verbose", InfoLevel, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLevelToColor(t *testing.T) {
	assert.Equal(t, colorMagenta+"[DEBUG]"+colorReset, levelToColor(DebugLevel, "[DEBUG]"))
	assert.Equal(t, "[INFO]", levelToColor(InfoLevel, "[INFO]"))
	assert.Equal(t, colorGreen+"[SUCCESS]"+colorReset, levelToColor(SuccessLevel, "[SUCCESS]"))
	assert.Equal(t, colorYellow+"[WARN]"+colorReset, levelToColor(WarnLevel, "[WARN]"))
}

func TestGet_DefaultsWhenNotInitialized(t *testing.T) {
	assert.NotNil(t, Get())
}

func TestReplaceGlobal(t *testing.T) {
	opts := DefaultOptions()
	opts.ColorConsole = false
	var buf bytes.Buffer
	l, err := NewLoggerWithWriter(opts, &buf)
	require.NoError(t, err)

	restore := ReplaceGlobal(l)
	Info("through the global %s", "logger")
	_ = SyncGlobal()
	restore()

	assert.Contains(t, buf.String(), "through the global logger")
	assert.NotSame(t, l, Get())
}
