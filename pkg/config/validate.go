package config

import (
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/mensylisir/procdriver/pkg/errors/validation"
	"github.com/mensylisir/procdriver/pkg/logger"
)

// Validate checks cfg after SetDefaults has run.
func Validate(cfg *Config) error {
	verrs := &validation.ValidationErrors{}
	if cfg == nil {
		verrs.Add("config is nil")
		return verrs
	}

	if strings.ContainsAny(cfg.Runtime.Binary, " \t\n") {
		verrs.Add("runtime.binary: %q must be a single executable", cfg.Runtime.Binary)
	}
	if cfg.Runtime.StopTimeout < 0 {
		verrs.Add("runtime.stopTimeout: must be non-negative, got %d", cfg.Runtime.StopTimeout)
	}
	if cfg.Runtime.MinVersion != "" {
		if _, err := semver.NewConstraint(cfg.Runtime.MinVersion); err != nil {
			verrs.Add("runtime.minVersion: %v", err)
		}
	}

	switch cfg.Executor.Type {
	case ExecutorLocal:
	case ExecutorSSH:
		if cfg.Executor.SSH == nil {
			verrs.Add("executor.ssh: required when executor.type is %q", ExecutorSSH)
		} else {
			validateSSH(cfg.Executor.SSH, "executor.ssh", verrs)
		}
	default:
		verrs.Add("executor.type: unsupported value %q, must be %q or %q", cfg.Executor.Type, ExecutorLocal, ExecutorSSH)
	}

	if cfg.Cache.InspectTTL < 0 {
		verrs.AddError("cache.inspectTTL", "must be non-negative")
	}
	if _, err := logger.ParseLevel(cfg.Log.Level); err != nil {
		verrs.Add("log.level: %v", err)
	}

	return verrs.OrNil()
}

func validateSSH(s *SSHConfig, path string, verrs *validation.ValidationErrors) {
	if strings.TrimSpace(s.Host) == "" {
		verrs.AddError(path+".host", "cannot be empty")
	}
	if !validation.IsValidPort(s.Port) {
		verrs.Add("%s.port: %d is not a valid port", path, s.Port)
	}
	if s.User == "" {
		verrs.AddError(path+".user", "cannot be empty")
	}
	if s.Password == "" && s.PrivateKeyPath == "" {
		verrs.Add("%s: one of password or privateKeyPath is required", path)
	}
	if s.Bastion != nil {
		if s.Bastion.Bastion != nil {
			verrs.Add("%s.bastion.bastion: chained bastions are not supported", path)
		}
		validateSSH(s.Bastion, path+".bastion", verrs)
	}
}
