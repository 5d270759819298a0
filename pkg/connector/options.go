package connector

import (
	"time"
)

// ExecOptions tunes a single Execute call. A nil *ExecOptions is valid.
type ExecOptions struct {
	Sudo    bool
	Timeout time.Duration
	Env     []string
	Stdin   []byte
	// OnOutputLine receives every complete line of stdout and stderr as it is
	// produced. It runs on the goroutine copying the output, so a slow callback
	// stalls the command.
	OnOutputLine func(line string)
}

func effective(opts *ExecOptions) ExecOptions {
	if opts == nil {
		return ExecOptions{}
	}
	return *opts
}
