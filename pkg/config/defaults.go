package config

import (
	"time"

	"github.com/mensylisir/procdriver/pkg/driver"
)

const (
	DefaultSSHPort    = 22
	DefaultSSHTimeout = 30 * time.Second
	DefaultLogLevel   = "info"
)

// SetDefaults fills unset fields in place.
func SetDefaults(cfg *Config) {
	if cfg == nil {
		return
	}
	if cfg.Runtime.Binary == "" {
		cfg.Runtime.Binary = driver.DefaultBinary
	}
	if cfg.Runtime.BridgeInterface == "" {
		cfg.Runtime.BridgeInterface = driver.DefaultBridgeInterface
	}
	if cfg.Runtime.IPCommand == "" {
		cfg.Runtime.IPCommand = driver.DefaultIPCommand
	}
	if cfg.Runtime.StopTimeout == 0 {
		cfg.Runtime.StopTimeout = driver.DefaultStopTimeout
	}

	if cfg.Executor.Type == "" {
		cfg.Executor.Type = ExecutorLocal
		if cfg.Executor.SSH != nil {
			cfg.Executor.Type = ExecutorSSH
		}
	}
	setSSHDefaults(cfg.Executor.SSH)

	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Color == nil {
		color := true
		cfg.Log.Color = &color
	}
}

func setSSHDefaults(s *SSHConfig) {
	for ; s != nil; s = s.Bastion {
		if s.Port == 0 {
			s.Port = DefaultSSHPort
		}
		if s.Timeout == 0 {
			s.Timeout = DefaultSSHTimeout
		}
	}
}
