package connector

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/ssh"

	"github.com/mensylisir/procdriver/pkg/logger"
)

const (
	defaultSSHTimeout = 30 * time.Second
	defaultSSHPort    = 22
)

// SSHConnector runs commands on a remote host. It is the delegated executor
// used when the container runtime lives on a different machine.
type SSHConnector struct {
	client        *ssh.Client
	bastionClient *ssh.Client
	connCfg       ConnectionCfg

	mu          sync.Mutex
	isConnected bool
}

func NewSSHConnector() *SSHConnector {
	return &SSHConnector{}
}

// dialer is swapped in tests.
var currentDialer = dialSSH

func (s *SSHConnector) Connect(ctx context.Context, cfg ConnectionCfg) error {
	s.connCfg = cfg
	client, bastionClient, err := currentDialer(ctx, cfg, cfg.Timeout)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.client = client
	s.bastionClient = bastionClient
	s.isConnected = true
	s.mu.Unlock()
	return nil
}

// IsConnected checks the connection with a keepalive request.
func (s *SSHConnector) IsConnected() bool {
	client := s.liveClient()
	if client == nil {
		return false
	}
	if _, _, err := client.SendRequest("keepalive@openssh.com", true, nil); err != nil {
		s.setConnected(false)
		return false
	}
	return true
}

// liveClient returns the client, or nil once the connector is closed or a
// keepalive has failed.
func (s *SSHConnector) liveClient() *ssh.Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isConnected {
		return nil
	}
	return s.client
}

func (s *SSHConnector) setConnected(v bool) {
	s.mu.Lock()
	s.isConnected = v
	s.mu.Unlock()
}

func (s *SSHConnector) Target() string {
	port := s.connCfg.Port
	if port == 0 {
		port = defaultSSHPort
	}
	return net.JoinHostPort(s.connCfg.Host, strconv.Itoa(port))
}

func (s *SSHConnector) Close() error {
	s.mu.Lock()
	client, bastion := s.client, s.bastionClient
	s.client, s.bastionClient = nil, nil
	s.isConnected = false
	s.mu.Unlock()

	var firstErr error
	if client != nil {
		if err := client.Close(); err != nil {
			firstErr = err
			logger.Error("SSHConnector: error closing client for %s: %v", s.connCfg.Host, err)
		}
	}
	if bastion != nil {
		if err := bastion.Close(); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			logger.Error("SSHConnector: error closing bastion client for %s: %v", s.connCfg.Host, err)
		}
	}
	return firstErr
}

// Execute runs argv on the remote host. sshd always hands the command to the
// login shell, so every argument is quoted on its own to keep the vector literal.
func (s *SSHConnector) Execute(ctx context.Context, argv []string, options *ExecOptions) (*Result, error) {
	if len(argv) == 0 {
		return nil, fmt.Errorf("empty command")
	}
	client := s.liveClient()
	if client == nil {
		return nil, &ConnectionError{Host: s.connCfg.Host, Err: fmt.Errorf("not connected")}
	}
	opts := effective(options)
	cmdLine := strings.Join(argv, " ")

	runCtx := ctx
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	session, err := client.NewSession()
	if err != nil {
		return nil, &CommandError{Cmd: cmdLine, ExitCode: -1, Underlying: fmt.Errorf("failed to create session: %w", err)}
	}
	defer session.Close()

	for _, envVar := range opts.Env {
		parts := strings.SplitN(envVar, "=", 2)
		if len(parts) == 2 {
			_ = session.Setenv(parts[0], parts[1])
		}
	}

	var stdin io.Reader = bytes.NewReader(opts.Stdin)
	finalCmd := quoteArgv(argv)
	if opts.Sudo {
		if s.connCfg.Password != "" {
			finalCmd = "sudo -S -p '' -E -- " + finalCmd
			stdin = io.MultiReader(strings.NewReader(s.connCfg.Password+"\n"), stdin)
		} else {
			finalCmd = "sudo -E -- " + finalCmd
		}
	}
	session.Stdin = stdin

	sinks := newOutputSinks(opts.OnOutputLine)
	session.Stdout, session.Stderr = sinks.writers()

	if err := session.Start(finalCmd); err != nil {
		return nil, &CommandError{Cmd: cmdLine, ExitCode: -1, Underlying: fmt.Errorf("failed to start command: %w", err)}
	}

	doneCh := make(chan error, 1)
	go func() {
		doneCh <- session.Wait()
	}()

	var runErr error
	select {
	case <-runCtx.Done():
		_ = session.Signal(ssh.SIGKILL)
		// Close unblocks Wait, so the output copiers are done before the
		// buffers are read.
		_ = session.Close()
		<-doneCh
		runErr = runCtx.Err()
	case runErr = <-doneCh:
	}
	sinks.flush()

	res := &Result{
		Stdout: sinks.stdout.Bytes(),
		Stderr: sinks.stderr.Bytes(),
	}
	if runErr == nil {
		return res, nil
	}
	res.ExitCode = -1
	if exitErr, ok := runErr.(*ssh.ExitError); ok {
		res.ExitCode = exitErr.ExitStatus()
	}
	return res, &CommandError{
		Cmd:        cmdLine,
		ExitCode:   res.ExitCode,
		Stdout:     string(res.Stdout),
		Stderr:     string(res.Stderr),
		Underlying: runErr,
	}
}

func shellEscape(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "'\\''") + "'"
}

func quoteArgv(argv []string) string {
	quoted := make([]string, len(argv))
	for i, a := range argv {
		quoted[i] = shellEscape(a)
	}
	return strings.Join(quoted, " ")
}

func dialSSH(ctx context.Context, cfg ConnectionCfg, connectTimeout time.Duration) (*ssh.Client, *ssh.Client, error) {
	targetSSHConfig, err := clientConfig(cfg, connectTimeout)
	if err != nil {
		return nil, nil, err
	}
	port := cfg.Port
	if port == 0 {
		port = defaultSSHPort
	}
	targetDialAddr := net.JoinHostPort(cfg.Host, strconv.Itoa(port))

	if cfg.BastionCfg != nil {
		bastionFullCfg := ConnectionCfg{
			Host:            cfg.BastionCfg.Host,
			Port:            cfg.BastionCfg.Port,
			User:            cfg.BastionCfg.User,
			Password:        cfg.BastionCfg.Password,
			PrivateKey:      cfg.BastionCfg.PrivateKey,
			PrivateKeyPath:  cfg.BastionCfg.PrivateKeyPath,
			Timeout:         cfg.BastionCfg.Timeout,
			HostKeyCallback: cfg.BastionCfg.HostKeyCallback,
		}
		return dialViaBastion(ctx, targetDialAddr, targetSSHConfig, bastionFullCfg)
	}

	client, err := dialContext(ctx, targetDialAddr, targetSSHConfig)
	if err != nil {
		return nil, nil, &ConnectionError{Host: cfg.Host, Err: fmt.Errorf("direct dial failed: %w", err)}
	}
	return client, nil, nil
}

func clientConfig(cfg ConnectionCfg, connectTimeout time.Duration) (*ssh.ClientConfig, error) {
	authMethods, err := buildAuthMethods(cfg)
	if err != nil {
		return nil, &ConnectionError{Host: cfg.Host, Err: fmt.Errorf("auth error: %w", err)}
	}
	timeout := connectTimeout
	if timeout == 0 {
		timeout = cfg.Timeout
	}
	if timeout == 0 {
		timeout = defaultSSHTimeout
	}
	sshCfg := &ssh.ClientConfig{
		User:            cfg.User,
		Auth:            authMethods,
		HostKeyCallback: cfg.HostKeyCallback,
		Timeout:         timeout,
	}
	if sshCfg.HostKeyCallback == nil {
		logger.Warn("HostKeyCallback is not set for host %s, host keys will not be verified", cfg.Host)
		sshCfg.HostKeyCallback = ssh.InsecureIgnoreHostKey()
	}
	return sshCfg, nil
}

func dialContext(ctx context.Context, addr string, sshCfg *ssh.ClientConfig) (*ssh.Client, error) {
	d := net.Dialer{Timeout: sshCfg.Timeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	ncc, chans, reqs, err := ssh.NewClientConn(conn, addr, sshCfg)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return ssh.NewClient(ncc, chans, reqs), nil
}

func dialViaBastion(ctx context.Context, targetDialAddr string, targetSSHConfig *ssh.ClientConfig, bastionCfg ConnectionCfg) (*ssh.Client, *ssh.Client, error) {
	bastionSSHConfig, err := clientConfig(bastionCfg, 0)
	if err != nil {
		return nil, nil, err
	}
	port := bastionCfg.Port
	if port == 0 {
		port = defaultSSHPort
	}
	bastionDialAddr := net.JoinHostPort(bastionCfg.Host, strconv.Itoa(port))

	bastionClient, err := dialContext(ctx, bastionDialAddr, bastionSSHConfig)
	if err != nil {
		return nil, nil, &ConnectionError{Host: bastionCfg.Host, Err: fmt.Errorf("bastion dial failed: %w", err)}
	}

	connToTarget, err := bastionClient.Dial("tcp", targetDialAddr)
	if err != nil {
		bastionClient.Close()
		return nil, nil, &ConnectionError{Host: targetDialAddr, Err: fmt.Errorf("dial target via bastion failed: %w", err)}
	}

	ncc, chans, reqs, err := ssh.NewClientConn(connToTarget, targetDialAddr, targetSSHConfig)
	if err != nil {
		connToTarget.Close()
		bastionClient.Close()
		return nil, nil, &ConnectionError{Host: targetDialAddr, Err: fmt.Errorf("SSH handshake to target via bastion failed: %w", err)}
	}
	return ssh.NewClient(ncc, chans, reqs), bastionClient, nil
}

func buildAuthMethods(cfg ConnectionCfg) ([]ssh.AuthMethod, error) {
	var methods []ssh.AuthMethod

	if cfg.Password != "" {
		methods = append(methods, ssh.Password(cfg.Password))
	}

	if len(cfg.PrivateKey) > 0 {
		signer, err := ssh.ParsePrivateKey(cfg.PrivateKey)
		if err != nil {
			return nil, fmt.Errorf("failed to parse private key bytes: %w", err)
		}
		methods = append(methods, ssh.PublicKeys(signer))
	} else if cfg.PrivateKeyPath != "" {
		keyFileBytes, err := os.ReadFile(cfg.PrivateKeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read private key file %s: %w", cfg.PrivateKeyPath, err)
		}
		signer, err := ssh.ParsePrivateKey(keyFileBytes)
		if err != nil {
			return nil, fmt.Errorf("failed to parse private key from file %s: %w", cfg.PrivateKeyPath, err)
		}
		methods = append(methods, ssh.PublicKeys(signer))
	}

	if len(methods) == 0 {
		return nil, fmt.Errorf("no SSH authentication method provided (password or private key required for host %s)", cfg.Host)
	}
	return methods, nil
}

var _ Connector = &SSHConnector{}
