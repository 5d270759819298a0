package driver

import (
	"context"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/mensylisir/procdriver/pkg/logger"
	"github.com/mensylisir/procdriver/pkg/parser"
)

// CreateOptions tunes Create. A nil *CreateOptions is valid.
type CreateOptions struct {
	OnOutputLine func(line string)
}

// Create runs a new container from spec and returns its id.
func (d *Driver) Create(ctx context.Context, spec *ContainerSpec, opts *CreateOptions) (string, error) {
	if spec == nil {
		return "", errors.Wrap(ErrInvalidSpec, "spec is nil")
	}
	if err := spec.Validate(); err != nil {
		return "", err
	}
	var onLine func(string)
	if opts != nil {
		onLine = opts.OnOutputLine
	}

	res, err := d.runtime(ctx, onLine, spec.runArgs()...)
	if err != nil {
		return "", err
	}
	id := lastLine(string(res.Stdout))
	logger.Get().With("container", id, "image", spec.Image).Successf("created %s", spec.Name)
	return id, nil
}

// lastLine returns the last non-blank line of output, trimmed.
func lastLine(output string) string {
	lines := strings.Split(strings.TrimRight(output, "\r\n \t"), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}

// Exists reports whether id is a container in any state.
func (d *Driver) Exists(ctx context.Context, id string) (bool, error) {
	out, err := d.listing(ctx, "ps", "-a", "-q", "--no-trunc")
	if err != nil {
		return false, err
	}
	return parser.ContainsLine(out, id), nil
}

// IsRunning reports whether id is a running container.
func (d *Driver) IsRunning(ctx context.Context, id string) (bool, error) {
	out, err := d.listing(ctx, "ps", "-q", "--no-trunc")
	if err != nil {
		return false, err
	}
	return parser.ContainsLine(out, id), nil
}

// State derives the container state from the running and all-containers
// listings. Running takes precedence.
func (d *Driver) State(ctx context.Context, id string) (ContainerState, error) {
	running, err := d.IsRunning(ctx, id)
	if err != nil {
		return NotCreated, err
	}
	if running {
		return Running, nil
	}
	exists, err := d.Exists(ctx, id)
	if err != nil {
		return NotCreated, err
	}
	if exists {
		return Stopped, nil
	}
	return NotCreated, nil
}

// AllContainers lists the full ids of every container, running or not.
func (d *Driver) AllContainers(ctx context.Context) ([]string, error) {
	out, err := d.listing(ctx, "ps", "-a", "-q", "--no-trunc")
	if err != nil {
		return nil, err
	}
	return parser.ParseIDList(out), nil
}

// RunningContainers lists the full ids of running containers.
func (d *Driver) RunningContainers(ctx context.Context) ([]string, error) {
	out, err := d.listing(ctx, "ps", "-q", "--no-trunc")
	if err != nil {
		return nil, err
	}
	return parser.ParseIDList(out), nil
}

// Start starts id unless it is already running.
func (d *Driver) Start(ctx context.Context, id string) error {
	running, err := d.IsRunning(ctx, id)
	if err != nil {
		return err
	}
	if running {
		return nil
	}
	if _, err := d.runtime(ctx, nil, "start", id); err != nil {
		return err
	}
	d.inspections.invalidate(id)
	logger.Get().With("container", id).Infof("started")
	return nil
}

// Stop stops id if it is running.
func (d *Driver) Stop(ctx context.Context, id string) error {
	running, err := d.IsRunning(ctx, id)
	if err != nil {
		return err
	}
	if !running {
		return nil
	}
	if _, err := d.runtime(ctx, nil, "stop", "-t", strconv.Itoa(d.opts.StopTimeout), id); err != nil {
		return err
	}
	d.inspections.invalidate(id)
	logger.Get().With("container", id).Infof("stopped")
	return nil
}

// Remove deletes id and its anonymous volumes if it exists.
func (d *Driver) Remove(ctx context.Context, id string) error {
	exists, err := d.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}
	if _, err := d.runtime(ctx, nil, "rm", "-v", id); err != nil {
		return err
	}
	d.inspections.invalidate(id)
	logger.Get().With("container", id).Infof("removed")
	return nil
}

// Inspect returns the inspection record for id. Records are cached until the
// container is started, stopped or removed through this driver.
func (d *Driver) Inspect(ctx context.Context, id string) (parser.InspectionRecord, error) {
	return d.inspections.get(ctx, id, func(ctx context.Context) (parser.InspectionRecord, error) {
		res, err := d.runtime(ctx, nil, "inspect", id)
		if err != nil {
			return parser.InspectionRecord{}, err
		}
		rec, err := parser.ParseInspect(res.Stdout)
		if err != nil {
			return parser.InspectionRecord{}, errors.Wrapf(err, "failed to parse inspect output for %s", id)
		}
		return rec, nil
	})
}

// IsPrivileged reports HostConfig.Privileged, false when absent.
func (d *Driver) IsPrivileged(ctx context.Context, id string) (bool, error) {
	rec, err := d.Inspect(ctx, id)
	if err != nil {
		return false, err
	}
	return rec.Privileged(), nil
}
