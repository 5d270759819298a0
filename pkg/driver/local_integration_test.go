package driver

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mensylisir/procdriver/pkg/connector"
	"github.com/mensylisir/procdriver/pkg/logger"
)

// fakeRuntime writes a script that prints each argument on its own line, and
// for "build" also prints a success marker.
func fakeRuntime(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	path := filepath.Join(t.TempDir(), "fake-runtime")
	script := `#!/bin/sh
for a in "$@"; do printf '%s\n' "$a"; done
if [ "$1" = build ]; then echo "Successfully built cafe01"; fi
`
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func TestDriver_LocalConnectorKeepsArgumentsLiteral(t *testing.T) {
	bin := fakeRuntime(t)
	marker := filepath.Join(t.TempDir(), "pwned")
	d := New(connector.NewLocalConnector(), Options{Binary: bin})

	vol := "/tmp/x:/x;touch " + marker
	id, err := d.Create(context.Background(), &ContainerSpec{
		Image:   "busybox",
		Name:    "web",
		Volumes: []string{vol},
		Cmd:     []string{"$(id)", "`uname`"},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "`uname`", id, "the last echoed argument comes back untouched")

	_, statErr := os.Stat(marker)
	assert.True(t, os.IsNotExist(statErr), "the volume spec must not run as a command")
}

func TestDriver_LocalConnectorBuildStreams(t *testing.T) {
	bin := fakeRuntime(t)
	d := New(connector.NewLocalConnector(), Options{Binary: bin})

	var lines []string
	id, err := d.Build(context.Background(), "/src dir", &BuildOptions{OnOutputLine: func(l string) {
		lines = append(lines, l)
	}})
	require.NoError(t, err)
	assert.Equal(t, "cafe01", id)
	assert.Equal(t, []string{"build", "/src dir", "Successfully built cafe01"}, lines)
}

func TestDriver_LocalConnectorLogsCommandOnce(t *testing.T) {
	bin := fakeRuntime(t)
	opts := logger.DefaultOptions()
	opts.ConsoleLevel = logger.DebugLevel
	opts.ColorConsole = false
	var buf bytes.Buffer
	l, err := logger.NewLoggerWithWriter(opts, &buf)
	require.NoError(t, err)
	defer logger.ReplaceGlobal(l)()

	d := New(connector.NewLocalConnector(), Options{Binary: bin})
	_, err = d.runtime(context.Background(), nil, "version", "--format", "json")
	require.NoError(t, err)
	_ = l.Sync()

	assert.Equal(t, 1, strings.Count(buf.String(), "version --format json"), buf.String())
}

// TestDockerIntegration runs against a real daemon when PROCDRIVER_DOCKER_IT=1.
func TestDockerIntegration(t *testing.T) {
	if testing.Short() || os.Getenv("PROCDRIVER_DOCKER_IT") != "1" {
		t.Skip("set PROCDRIVER_DOCKER_IT=1 to run against a local docker daemon")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	d := New(connector.NewLocalConnector(), Options{})

	require.NoError(t, d.CheckRuntimeVersion(ctx, ">= 1.13"))

	name := "procdriver-it-" + uuid.NewString()[:8]
	id, err := d.Create(ctx, &ContainerSpec{
		Image:  "busybox",
		Name:   name,
		Detach: true,
		Env:    map[string]string{"A": "1"},
		Cmd:    []string{"sleep", "300"},
	}, nil)
	require.NoError(t, err)
	defer func() { _ = d.Remove(context.Background(), id) }()

	state, err := d.State(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, Running, state)

	priv, err := d.IsPrivileged(ctx, id)
	require.NoError(t, err)
	assert.False(t, priv)

	require.NoError(t, d.Stop(ctx, id))
	state, err = d.State(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, Stopped, state)

	require.NoError(t, d.Remove(ctx, id))
	state, err = d.State(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, NotCreated, state)

	ok, err := d.RemoveImage(ctx, "procdriver-it-no-such-image")
	require.NoError(t, err)
	assert.True(t, ok)
}
