package connector

import (
	"errors"
	"fmt"
	"testing"
)

func TestCommandError(t *testing.T) {
	underlyingErr := errors.New("underlying issue")
	cmdErr := &CommandError{
		Cmd:        "docker rmi abc",
		ExitCode:   1,
		Stdout:     "some output",
		Stderr:     "conflict: unable to remove repository reference (image is using it)",
		Underlying: underlyingErr,
	}

	expectedMsg := "command 'docker rmi abc' failed with exit code 1: conflict: unable to remove repository reference (image is using it) (underlying error: underlying issue)"
	if cmdErr.Error() != expectedMsg {
		t.Errorf("CommandError.Error() got %q, want %q", cmdErr.Error(), expectedMsg)
	}
	if !errors.Is(cmdErr, underlyingErr) {
		t.Errorf("errors.Is(cmdErr, underlyingErr) was false, expected true")
	}

	cmdErrNoDetails := &CommandError{Cmd: "echo hello", ExitCode: 2}
	if got, want := cmdErrNoDetails.Error(), "command 'echo hello' failed with exit code 2"; got != want {
		t.Errorf("CommandError.Error() without details got %q, want %q", got, want)
	}
	if cmdErrNoDetails.Unwrap() != nil {
		t.Errorf("CommandError.Unwrap() without underlying error got %v, want nil", cmdErrNoDetails.Unwrap())
	}

	wrapped := fmt.Errorf("outer: %w", cmdErr)
	var target *CommandError
	if !errors.As(wrapped, &target) || target.ExitCode != 1 {
		t.Errorf("errors.As did not find the CommandError through wrapping")
	}
}

func TestConnectionError(t *testing.T) {
	inner := errors.New("connection refused")
	connErr := &ConnectionError{Host: "10.0.0.5", Err: inner}
	if got, want := connErr.Error(), "failed to connect to host 10.0.0.5: connection refused"; got != want {
		t.Errorf("ConnectionError.Error() got %q, want %q", got, want)
	}
	if !errors.Is(connErr, inner) {
		t.Errorf("errors.Is(connErr, inner) was false")
	}
}
