// Package config loads the procdriver YAML configuration.
package config

import (
	"time"
)

const (
	ExecutorLocal = "local"
	ExecutorSSH   = "ssh"
)

// Config is the root of the configuration file.
type Config struct {
	Runtime  RuntimeConfig  `yaml:"runtime"`
	Executor ExecutorConfig `yaml:"executor"`
	Cache    CacheConfig    `yaml:"cache"`
	Log      LogConfig      `yaml:"log"`
}

// RuntimeConfig describes the container runtime CLI being driven.
type RuntimeConfig struct {
	Binary          string `yaml:"binary,omitempty"`
	BridgeInterface string `yaml:"bridgeInterface,omitempty"`
	IPCommand       string `yaml:"ipCommand,omitempty"`
	// StopTimeout is in seconds.
	StopTimeout int `yaml:"stopTimeout,omitempty"`
	// MinVersion is a semver constraint such as ">= 20.10". Empty disables the check.
	MinVersion string `yaml:"minVersion,omitempty"`
}

type ExecutorConfig struct {
	Type string     `yaml:"type,omitempty"`
	Sudo bool       `yaml:"sudo,omitempty"`
	SSH  *SSHConfig `yaml:"ssh,omitempty"`
}

type SSHConfig struct {
	Host           string        `yaml:"host"`
	Port           int           `yaml:"port,omitempty"`
	User           string        `yaml:"user,omitempty"`
	Password       string        `yaml:"password,omitempty"`
	PrivateKeyPath string        `yaml:"privateKeyPath,omitempty"`
	Timeout        time.Duration `yaml:"timeout,omitempty"`
	Bastion        *SSHConfig    `yaml:"bastion,omitempty"`
}

type CacheConfig struct {
	// InspectTTL of zero keeps inspection records until invalidated.
	InspectTTL time.Duration `yaml:"inspectTTL,omitempty"`
}

type LogConfig struct {
	Level string `yaml:"level,omitempty"`
	// File enables JSON file output at this path when set.
	File  string `yaml:"file,omitempty"`
	Color *bool  `yaml:"color,omitempty"`
}
