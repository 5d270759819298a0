package config

import (
	"github.com/mensylisir/procdriver/pkg/connector"
	"github.com/mensylisir/procdriver/pkg/driver"
	"github.com/mensylisir/procdriver/pkg/logger"
)

// DriverOptions maps the runtime, executor and cache sections onto driver.Options.
func (c *Config) DriverOptions() driver.Options {
	return driver.Options{
		Binary:          c.Runtime.Binary,
		IPCommand:       c.Runtime.IPCommand,
		BridgeInterface: c.Runtime.BridgeInterface,
		StopTimeout:     c.Runtime.StopTimeout,
		Sudo:            c.Executor.Sudo,
		InspectTTL:      c.Cache.InspectTTL,
	}
}

// ConnectionCfg returns the connector settings for the configured executor.
// It is the zero value for the local executor.
func (c *Config) ConnectionCfg() connector.ConnectionCfg {
	s := c.Executor.SSH
	if c.Executor.Type != ExecutorSSH || s == nil {
		return connector.ConnectionCfg{}
	}
	cfg := connector.ConnectionCfg{
		Host:           s.Host,
		Port:           s.Port,
		User:           s.User,
		Password:       s.Password,
		PrivateKeyPath: s.PrivateKeyPath,
		Timeout:        s.Timeout,
	}
	if b := s.Bastion; b != nil {
		cfg.BastionCfg = &connector.BastionCfg{
			Host:           b.Host,
			Port:           b.Port,
			User:           b.User,
			Password:       b.Password,
			PrivateKeyPath: b.PrivateKeyPath,
			Timeout:        b.Timeout,
		}
	}
	return cfg
}

// LoggerOptions builds logger options from the log section. verbose forces
// debug output on the console.
func (c *Config) LoggerOptions(verbose bool) logger.Options {
	opts := logger.DefaultOptions()
	if lvl, err := logger.ParseLevel(c.Log.Level); err == nil {
		opts.ConsoleLevel = lvl
	}
	if verbose {
		opts.ConsoleLevel = logger.DebugLevel
	}
	if c.Log.Color != nil {
		opts.ColorConsole = *c.Log.Color
	}
	if c.Log.File != "" {
		opts.FileOutput = true
		opts.LogFilePath = c.Log.File
	}
	return opts
}
