package driver

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ErrBridgeAddressUnavailable is returned when the interface query succeeded
// but printed no global IPv4 address.
var ErrBridgeAddressUnavailable = errors.New("unable to determine bridge network address")

// BuildOutputUnparseableError means the build exited 0 but printed no
// "Successfully built" marker.
type BuildOutputUnparseableError struct {
	RawOutput string
}

func (e *BuildOutputUnparseableError) Error() string {
	return fmt.Sprintf("build succeeded but no image id found in output: %s", e.RawOutput)
}

// RemoveImageFailure classifies the stderr of a failed remove-image command.
type RemoveImageFailure int

const (
	// RemoveImageOther is any failure not recognised below.
	RemoveImageOther RemoveImageFailure = iota
	// RemoveImageBusy means a container still references the image.
	RemoveImageBusy
	// RemoveImageNotFound means the image is already gone.
	RemoveImageNotFound
)

func (f RemoveImageFailure) String() string {
	switch f {
	case RemoveImageBusy:
		return "busy"
	case RemoveImageNotFound:
		return "not_found"
	default:
		return "other"
	}
}

// The runtime exposes no structured error codes, so these substrings of its
// messages are the contract. "is using it" is checked first.
const (
	imageBusyMarker     = "is using it"
	imageNotFoundMarker = "No such image"
)

// ClassifyRemoveImageFailure maps remove-image stderr to a RemoveImageFailure.
func ClassifyRemoveImageFailure(stderr string) RemoveImageFailure {
	switch {
	case strings.Contains(stderr, imageBusyMarker):
		return RemoveImageBusy
	case strings.Contains(stderr, imageNotFoundMarker):
		return RemoveImageNotFound
	default:
		return RemoveImageOther
	}
}
