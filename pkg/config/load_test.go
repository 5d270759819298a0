package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mensylisir/procdriver/pkg/errors/validation"
)

const sshYAML = `
runtime:
  binary: podman
  bridgeInterface: podman0
  minVersion: ">= 4.0"
executor:
  type: ssh
  sudo: true
  ssh:
    host: 10.0.0.5
    user: ops
    privateKeyPath: /home/ops/.ssh/id_ed25519
    timeout: 10s
    bastion:
      host: jump.example.com
      user: ops
      password: secret
cache:
  inspectTTL: 1m
log:
  level: debug
  file: /var/log/procdriver.log
  color: false
`

func TestLoadFromBytes_SSH(t *testing.T) {
	cfg, err := LoadFromBytes([]byte(sshYAML))
	require.NoError(t, err)

	assert.Equal(t, "podman", cfg.Runtime.Binary)
	assert.Equal(t, "podman0", cfg.Runtime.BridgeInterface)
	assert.Equal(t, "/sbin/ip", cfg.Runtime.IPCommand)
	assert.Equal(t, 1, cfg.Runtime.StopTimeout)
	assert.Equal(t, ExecutorSSH, cfg.Executor.Type)
	require.NotNil(t, cfg.Executor.SSH)
	assert.Equal(t, 22, cfg.Executor.SSH.Port)
	assert.Equal(t, 10*time.Second, cfg.Executor.SSH.Timeout)
	require.NotNil(t, cfg.Executor.SSH.Bastion)
	assert.Equal(t, 22, cfg.Executor.SSH.Bastion.Port)
	assert.Equal(t, DefaultSSHTimeout, cfg.Executor.SSH.Bastion.Timeout)
	assert.Equal(t, time.Minute, cfg.Cache.InspectTTL)
	require.NotNil(t, cfg.Log.Color)
	assert.False(t, *cfg.Log.Color)

	conn := cfg.ConnectionCfg()
	assert.Equal(t, "10.0.0.5", conn.Host)
	assert.Equal(t, "/home/ops/.ssh/id_ed25519", conn.PrivateKeyPath)
	require.NotNil(t, conn.BastionCfg)
	assert.Equal(t, "jump.example.com", conn.BastionCfg.Host)
	assert.Equal(t, "secret", conn.BastionCfg.Password)

	opts := cfg.DriverOptions()
	assert.Equal(t, "podman", opts.Binary)
	assert.True(t, opts.Sudo)
	assert.Equal(t, time.Minute, opts.InspectTTL)

	lo := cfg.LoggerOptions(false)
	assert.True(t, lo.FileOutput)
	assert.Equal(t, "/var/log/procdriver.log", lo.LogFilePath)
	assert.False(t, lo.ColorConsole)
}

func TestLoadFromBytes_Empty(t *testing.T) {
	for _, in := range []string{"", "# nothing here\n"} {
		cfg, err := LoadFromBytes([]byte(in))
		require.NoError(t, err)
		assert.Equal(t, "docker", cfg.Runtime.Binary)
		assert.Equal(t, "docker0", cfg.Runtime.BridgeInterface)
		assert.Equal(t, ExecutorLocal, cfg.Executor.Type)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Equal(t, "", cfg.ConnectionCfg().Host)
	}
}

func TestLoadFromBytes_InferSSHType(t *testing.T) {
	cfg, err := LoadFromBytes([]byte("executor:\n  ssh:\n    host: h\n    user: u\n    password: p\n"))
	require.NoError(t, err)
	assert.Equal(t, ExecutorSSH, cfg.Executor.Type)
}

func TestLoadFromBytes_Errors(t *testing.T) {
	tests := []struct {
		name   string
		yaml   string
		errMsg string
	}{
		{"unknown key", "runtime:\n  binnary: docker\n", "failed to unmarshal"},
		{"bad executor type", "executor:\n  type: winrm\n", "executor.type"},
		{"ssh without section", "executor:\n  type: ssh\n", "executor.ssh: required"},
		{"ssh without auth", "executor:\n  ssh:\n    host: h\n    user: u\n", "password or privateKeyPath"},
		{"ssh without host", "executor:\n  ssh:\n    user: u\n    password: p\n", "executor.ssh.host"},
		{"bastion without user", "executor:\n  ssh:\n    host: h\n    user: u\n    password: p\n    bastion:\n      host: b\n      password: p\n", "executor.ssh.bastion.user"},
		{"bad min version", "runtime:\n  minVersion: not-a-version\n", "runtime.minVersion"},
		{"binary with spaces", "runtime:\n  binary: sudo docker\n", "runtime.binary"},
		{"negative ttl", "cache:\n  inspectTTL: -1s\n", "cache.inspectTTL"},
		{"bad log level", "log:\n  level: loud\n", "log.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromBytes([]byte(tt.yaml))
			assert.ErrorContains(t, err, tt.errMsg)
		})
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := Default()
	cfg.Executor.Type = "winrm"
	cfg.Log.Level = "loud"
	err := Validate(cfg)

	var verrs *validation.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, 2, verrs.Count())
	assert.Error(t, Validate(nil))
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "procdriver.yaml")
	require.NoError(t, os.WriteFile(path, []byte("runtime:\n  stopTimeout: 5\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Runtime.StopTimeout)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read config file")
	_, err = Load("")
	assert.Error(t, err)
}

func TestLoggerOptions_Verbose(t *testing.T) {
	cfg := Default()
	lo := cfg.LoggerOptions(true)
	assert.Equal(t, "DEBUG", lo.ConsoleLevel.CapitalString())
	assert.False(t, lo.FileOutput)
	assert.True(t, lo.ColorConsole)
}
