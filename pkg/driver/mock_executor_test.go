package driver

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/mensylisir/procdriver/pkg/connector"
)

// MockExecutor answers commands from Responses, keyed by the space-joined argv.
// Unknown commands fail with exit code 127.
type MockExecutor struct {
	mu        sync.Mutex
	Responses map[string]MockResponse
	// ExecFunc, when set, takes precedence over Responses.
	ExecFunc func(ctx context.Context, argv []string, opts *connector.ExecOptions) (*connector.Result, error)

	History     [][]string
	LastOptions *connector.ExecOptions
}

type MockResponse struct {
	Stdout   string
	Stderr   string
	ExitCode int
	// Lines are sent to OnOutputLine before the command returns.
	Lines []string
}

func NewMockExecutor() *MockExecutor {
	return &MockExecutor{Responses: make(map[string]MockResponse)}
}

func (m *MockExecutor) On(cmd string, resp MockResponse) *MockExecutor {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Responses[cmd] = resp
	return m
}

func (m *MockExecutor) Execute(ctx context.Context, argv []string, opts *connector.ExecOptions) (*connector.Result, error) {
	m.mu.Lock()
	m.History = append(m.History, append([]string(nil), argv...))
	m.LastOptions = opts
	fn := m.ExecFunc
	resp, ok := m.Responses[strings.Join(argv, " ")]
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, argv, opts)
	}
	if !ok {
		resp = MockResponse{ExitCode: 127, Stderr: fmt.Sprintf("%s: command not found", argv[0])}
	}
	if opts != nil && opts.OnOutputLine != nil {
		for _, l := range resp.Lines {
			opts.OnOutputLine(l)
		}
	}
	res := &connector.Result{ExitCode: resp.ExitCode, Stdout: []byte(resp.Stdout), Stderr: []byte(resp.Stderr)}
	if resp.ExitCode != 0 {
		return res, &connector.CommandError{
			Cmd:      strings.Join(argv, " "),
			ExitCode: resp.ExitCode,
			Stdout:   resp.Stdout,
			Stderr:   resp.Stderr,
		}
	}
	return res, nil
}

func (m *MockExecutor) Calls() [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]string(nil), m.History...)
}

func (m *MockExecutor) CallCount(cmd string) int {
	n := 0
	for _, argv := range m.Calls() {
		if strings.Join(argv, " ") == cmd {
			n++
		}
	}
	return n
}
