package driver

import (
	"context"

	"github.com/Masterminds/semver/v3"
	"github.com/pkg/errors"

	"github.com/mensylisir/procdriver/pkg/parser"
)

// BridgeNetworkAddress returns the IPv4 address of the runtime's bridge
// interface on the execution host.
func (d *Driver) BridgeNetworkAddress(ctx context.Context) (string, error) {
	argv := []string{d.opts.IPCommand, "-4", "addr", "show", "scope", "global", d.opts.BridgeInterface}
	res, err := d.run(ctx, argv, nil)
	if err != nil {
		return "", err
	}
	ip, ok := parser.ParseBridgeAddress(string(res.Stdout))
	if !ok {
		return "", errors.Wrapf(ErrBridgeAddressUnavailable, "interface %s", d.opts.BridgeInterface)
	}
	return ip, nil
}

// RuntimeVersion returns the version reported by the runtime daemon.
func (d *Driver) RuntimeVersion(ctx context.Context) (*semver.Version, error) {
	res, err := d.runtime(ctx, nil, "version", "--format", "{{.Server.Version}}")
	if err != nil {
		return nil, err
	}
	return parser.ParseVersion(string(res.Stdout))
}

// CheckRuntimeVersion fails unless the runtime version satisfies constraint,
// e.g. ">= 20.10".
func (d *Driver) CheckRuntimeVersion(ctx context.Context, constraint string) error {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return errors.Wrapf(err, "invalid version constraint %q", constraint)
	}
	v, err := d.RuntimeVersion(ctx)
	if err != nil {
		return err
	}
	if ok, errs := c.Validate(v); !ok {
		if len(errs) > 0 {
			return errors.Errorf("runtime version %s does not satisfy %s: %v", v, constraint, errs[0])
		}
		return errors.Errorf("runtime version %s does not satisfy %s", v, constraint)
	}
	return nil
}
