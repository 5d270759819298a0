package driver

import (
	"sort"
	"strconv"

	"github.com/distribution/reference"
	"github.com/docker/go-connections/nat"
	"github.com/pkg/errors"

	"github.com/mensylisir/procdriver/pkg/errors/validation"
)

// ErrInvalidSpec is wrapped by every ContainerSpec validation failure.
var ErrInvalidSpec = errors.New("invalid container spec")

// ContainerSpec describes the container passed to Create.
// It must not be modified once handed to the driver.
type ContainerSpec struct {
	Image string
	Name  string
	// Links maps alias to target container.
	Links map[string]string
	// Ports are passed to -p verbatim, e.g. "8080:80" or "127.0.0.1:53:53/udp".
	Ports []string
	// Volumes are passed to -v verbatim.
	Volumes []string
	Cmd     []string
	Env     map[string]string
	Expose  []int

	Privileged bool
	Detach     bool
	Hostname   string
	ExtraArgs  []string
}

// Validate checks the fields the runtime would otherwise reject late.
func (s *ContainerSpec) Validate() error {
	if s.Image == "" {
		return errors.Wrap(ErrInvalidSpec, "image is required")
	}
	if s.Name == "" {
		return errors.Wrap(ErrInvalidSpec, "name is required")
	}
	if _, err := reference.ParseAnyReference(s.Image); err != nil {
		return errors.Wrapf(ErrInvalidSpec, "image %q: %v", s.Image, err)
	}
	for _, p := range s.Ports {
		if _, err := nat.ParsePortSpec(p); err != nil {
			return errors.Wrapf(ErrInvalidSpec, "port %q: %v", p, err)
		}
	}
	for _, p := range s.Expose {
		if !validation.IsValidPort(p) {
			return errors.Wrapf(ErrInvalidSpec, "exposed port %d out of range", p)
		}
	}
	for alias, target := range s.Links {
		if alias == "" || target == "" {
			return errors.Wrapf(ErrInvalidSpec, "link %q:%q must name both alias and target", alias, target)
		}
	}
	return nil
}

// runArgs returns the arguments following "<binary> run". The order is fixed:
// name, detach, env, expose, links, ports, volumes, privileged, hostname,
// extra args, image, command. Map-valued fields are emitted in key order.
func (s *ContainerSpec) runArgs() []string {
	args := []string{"run", "--name", s.Name}
	if s.Detach {
		args = append(args, "-d")
	}
	for _, k := range sortedKeys(s.Env) {
		args = append(args, "-e", k+"="+s.Env[k])
	}
	for _, p := range s.Expose {
		args = append(args, "--expose", strconv.Itoa(p))
	}
	for _, alias := range sortedKeys(s.Links) {
		args = append(args, "--link", alias+":"+s.Links[alias])
	}
	for _, p := range s.Ports {
		args = append(args, "-p", p)
	}
	for _, v := range s.Volumes {
		args = append(args, "-v", v)
	}
	if s.Privileged {
		args = append(args, "--privileged")
	}
	if s.Hostname != "" {
		args = append(args, "-h", s.Hostname)
	}
	args = append(args, s.ExtraArgs...)
	args = append(args, s.Image)
	return append(args, s.Cmd...)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ContainerState is derived from the runtime's process listings.
type ContainerState int

const (
	NotCreated ContainerState = iota
	Stopped
	Running
)

func (s ContainerState) String() string {
	switch s {
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	default:
		return "not_created"
	}
}
