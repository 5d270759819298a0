package driver

import (
	"context"
	"errors"

	"github.com/mensylisir/procdriver/pkg/connector"
	"github.com/mensylisir/procdriver/pkg/logger"
	"github.com/mensylisir/procdriver/pkg/parser"
)

// BuildOptions tunes Build. A nil *BuildOptions is valid.
type BuildOptions struct {
	// Tag is passed as -t when set.
	Tag string
	// ExtraArgs are inserted before the build context directory.
	ExtraArgs []string
	// OnOutputLine receives each line of build output as it arrives.
	OnOutputLine func(line string)
}

// Build builds the image in dir and returns the id printed by the runtime.
func (d *Driver) Build(ctx context.Context, dir string, opts *BuildOptions) (string, error) {
	if opts == nil {
		opts = &BuildOptions{}
	}
	args := []string{"build"}
	if opts.Tag != "" {
		args = append(args, "-t", opts.Tag)
	}
	args = append(args, opts.ExtraArgs...)
	args = append(args, dir)

	res, err := d.runtime(ctx, opts.OnOutputLine, args...)
	if err != nil {
		return "", err
	}
	output := res.Combined()
	id, ok := parser.ParseBuildOutput(output)
	if !ok {
		return "", &BuildOutputUnparseableError{RawOutput: output}
	}
	logger.Get().With("image", id).Successf("built image from %s", dir)
	return id, nil
}

// ImageExists reports whether id appears as a whole line of the image listing.
func (d *Driver) ImageExists(ctx context.Context, id string) (bool, error) {
	out, err := d.listing(ctx, "images", "-q")
	if err != nil {
		return false, err
	}
	return parser.ContainsLine(out, id), nil
}

// RemoveImage removes an image. It returns false with no error when a
// container still uses the image, and true when the image was removed or did
// not exist.
func (d *Driver) RemoveImage(ctx context.Context, id string) (bool, error) {
	_, err := d.runtime(ctx, nil, "rmi", id)
	if err == nil {
		return true, nil
	}

	stderr := err.Error()
	var cmdErr *connector.CommandError
	if errors.As(err, &cmdErr) {
		stderr = cmdErr.Stderr
	}
	switch ClassifyRemoveImageFailure(stderr) {
	case RemoveImageBusy:
		logger.Get().With("image", id).Infof("image is in use, leaving it in place")
		return false, nil
	case RemoveImageNotFound:
		return true, nil
	default:
		return false, err
	}
}
