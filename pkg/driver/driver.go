package driver

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/mensylisir/procdriver/pkg/cache"
	"github.com/mensylisir/procdriver/pkg/connector"
	"github.com/mensylisir/procdriver/pkg/logger"
)

const (
	DefaultBinary          = "docker"
	DefaultIPCommand       = "/sbin/ip"
	DefaultBridgeInterface = "docker0"
	DefaultStopTimeout     = 1
)

// Options configures a Driver. Zero values take the defaults above.
type Options struct {
	Binary          string
	IPCommand       string
	BridgeInterface string
	// StopTimeout is the grace period in seconds passed to stop.
	StopTimeout int
	// Sudo runs every command through sudo.
	Sudo bool
	// InspectTTL bounds how long an inspection record is reused. Zero keeps it
	// until the container is started, stopped or removed through this driver.
	InspectTTL time.Duration
}

func (o *Options) setDefaults() {
	if o.Binary == "" {
		o.Binary = DefaultBinary
	}
	if o.IPCommand == "" {
		o.IPCommand = DefaultIPCommand
	}
	if o.BridgeInterface == "" {
		o.BridgeInterface = DefaultBridgeInterface
	}
	if o.StopTimeout <= 0 {
		o.StopTimeout = DefaultStopTimeout
	}
}

// Driver runs container runtime commands through an Executor and parses what
// they print. It is safe for concurrent use.
type Driver struct {
	opts Options

	mu       sync.RWMutex
	executor connector.Executor

	inspections *inspectionCache
}

// New returns a Driver that runs commands through executor.
func New(executor connector.Executor, opts Options) *Driver {
	opts.setDefaults()
	return &Driver{
		opts:        opts,
		executor:    executor,
		inspections: newInspectionCache(newInspectionStore(opts.InspectTTL)),
	}
}

// newInspectionStore sweeps expired records once per TTL.
func newInspectionStore(ttl time.Duration) *cache.GenericCache {
	if ttl > 0 {
		return cache.New(ttl, ttl)
	}
	return cache.New(cache.NoExpiration, 0)
}

// Close stops background cache maintenance. The executor is not closed.
func (d *Driver) Close() {
	d.inspections.close()
}

// SetExecutor replaces the executor used for subsequent commands. Cached
// inspection records are dropped since they may describe another host.
func (d *Driver) SetExecutor(executor connector.Executor) {
	d.mu.Lock()
	d.executor = executor
	d.mu.Unlock()
	d.inspections.flush()
}

func (d *Driver) Executor() connector.Executor {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.executor
}

// Options returns the effective configuration.
func (d *Driver) Options() Options {
	return d.opts
}

// runtime runs the configured runtime binary with args. onLine may be nil.
// Cancellation comes from ctx only.
func (d *Driver) runtime(ctx context.Context, onLine func(string), args ...string) (*connector.Result, error) {
	argv := append([]string{d.opts.Binary}, args...)
	return d.run(ctx, argv, onLine)
}

func (d *Driver) run(ctx context.Context, argv []string, onLine func(string)) (*connector.Result, error) {
	executor := d.Executor()
	log := logger.Get()
	if t, ok := executor.(interface{ Target() string }); ok {
		log = log.With("target", t.Target())
	}
	log.Debugf("running %s", strings.Join(argv, " "))

	res, err := executor.Execute(ctx, argv, &connector.ExecOptions{
		Sudo:         d.opts.Sudo,
		OnOutputLine: onLine,
	})
	if err != nil {
		log.Debugf("%s failed: %v", argv[0], err)
		return res, err
	}
	return res, nil
}

// listing runs a listing command and returns its stdout.
func (d *Driver) listing(ctx context.Context, args ...string) (string, error) {
	res, err := d.runtime(ctx, nil, args...)
	if err != nil {
		return "", err
	}
	return string(res.Stdout), nil
}
