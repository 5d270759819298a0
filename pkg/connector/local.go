package connector

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// LocalConnector runs commands as child processes of the current process.
type LocalConnector struct {
	connCfg ConnectionCfg
}

func NewLocalConnector() *LocalConnector {
	return &LocalConnector{}
}

func (l *LocalConnector) Connect(ctx context.Context, cfg ConnectionCfg) error {
	l.connCfg = cfg
	return nil
}

func (l *LocalConnector) IsConnected() bool {
	return true
}

func (l *LocalConnector) Close() error {
	return nil
}

func (l *LocalConnector) Target() string {
	return "local"
}

// Execute spawns argv[0] with argv[1:] as its arguments. No shell is involved,
// so metacharacters inside arguments reach the program untouched.
func (l *LocalConnector) Execute(ctx context.Context, argv []string, options *ExecOptions) (*Result, error) {
	if len(argv) == 0 {
		return nil, fmt.Errorf("empty command")
	}
	opts := effective(options)
	cmdLine := strings.Join(argv, " ")

	runArgv := argv
	var stdin io.Reader
	if len(opts.Stdin) > 0 {
		stdin = bytes.NewReader(opts.Stdin)
	}
	if opts.Sudo {
		if l.connCfg.Password != "" {
			runArgv = append([]string{"sudo", "-S", "-p", "", "-E", "--"}, argv...)
			pw := strings.NewReader(l.connCfg.Password + "\n")
			if stdin != nil {
				stdin = io.MultiReader(pw, stdin)
			} else {
				stdin = pw
			}
		} else {
			runArgv = append([]string{"sudo", "-E", "--"}, argv...)
		}
	}

	runCtx := ctx
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, runArgv[0], runArgv[1:]...)
	if len(opts.Env) > 0 {
		cmd.Env = append(os.Environ(), opts.Env...)
	}
	if stdin != nil {
		cmd.Stdin = stdin
	}
	sinks := newOutputSinks(opts.OnOutputLine)
	cmd.Stdout, cmd.Stderr = sinks.writers()

	runErr := cmd.Run()
	sinks.flush()

	res := &Result{
		Stdout: sinks.stdout.Bytes(),
		Stderr: sinks.stderr.Bytes(),
	}
	if runErr == nil {
		return res, nil
	}

	res.ExitCode = -1
	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
	}
	if ctxErr := runCtx.Err(); ctxErr != nil {
		runErr = ctxErr
	}
	return res, &CommandError{
		Cmd:        cmdLine,
		ExitCode:   res.ExitCode,
		Stdout:     string(res.Stdout),
		Stderr:     string(res.Stderr),
		Underlying: runErr,
	}
}

var _ Connector = &LocalConnector{}
