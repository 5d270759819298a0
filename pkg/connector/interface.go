package connector

import (
	"context"
	"time"

	"golang.org/x/crypto/ssh"
)

// Executor runs a single command line and returns its captured output.
//
// argv is a literal argument vector: argv[0] is the program and no element is
// ever interpreted by a shell on the local side. A non-zero exit is reported as
// a *CommandError whose message carries the captured stderr verbatim.
type Executor interface {
	Execute(ctx context.Context, argv []string, opts *ExecOptions) (*Result, error)
}

// Connector is an Executor bound to a host that may need to be dialed first.
type Connector interface {
	Executor
	Connect(ctx context.Context, cfg ConnectionCfg) error
	Close() error
	IsConnected() bool
	// Target returns a label for the execution target, e.g. "local" or "10.0.0.5:22".
	Target() string
}

// Result holds the captured output of one invocation.
type Result struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

// Combined returns stdout followed by stderr.
func (r *Result) Combined() string {
	if r == nil {
		return ""
	}
	out := string(r.Stdout)
	if len(r.Stderr) > 0 {
		if len(out) > 0 && out[len(out)-1] != '\n' {
			out += "\n"
		}
		out += string(r.Stderr)
	}
	return out
}

// BastionCfg defines configuration for a bastion/jump host.
type BastionCfg struct {
	Host            string              `json:"host,omitempty" yaml:"host,omitempty"`
	Port            int                 `json:"port,omitempty" yaml:"port,omitempty"`
	User            string              `json:"user,omitempty" yaml:"user,omitempty"`
	Password        string              `json:"password,omitempty" yaml:"password,omitempty"`
	PrivateKey      []byte              `json:"-" yaml:"-"`
	PrivateKeyPath  string              `json:"privateKeyPath,omitempty" yaml:"privateKeyPath,omitempty"`
	Timeout         time.Duration       `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	HostKeyCallback ssh.HostKeyCallback `json:"-" yaml:"-"`
}

// ConnectionCfg holds all parameters needed to reach the execution target.
type ConnectionCfg struct {
	Host            string
	Port            int
	User            string
	Password        string
	PrivateKey      []byte
	PrivateKeyPath  string
	Timeout         time.Duration
	BastionCfg      *BastionCfg
	HostKeyCallback ssh.HostKeyCallback `json:"-" yaml:"-"`
}
