// Package parser turns runtime CLI output into typed values.
// Every function here is pure: no I/O, no state.
package parser

import (
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/pkg/errors"
)

var (
	buildSuccessRe   = regexp.MustCompile(`(?im)Successfully built (.+)$`)
	bridgeAddressRe  = regexp.MustCompile(`(?m)^\s+inet ([0-9.]+)/[0-9]+\s+`)
	leadingVersionRe = regexp.MustCompile(`\d+\.\d+(\.\d+)?`)
)

func normalizeNewlines(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}

// ParseBuildOutput extracts the image id from the "Successfully built <id>"
// line of a build. ok is false when the marker is absent.
func ParseBuildOutput(output string) (id string, ok bool) {
	m := buildSuccessRe.FindStringSubmatch(normalizeNewlines(output))
	if m == nil {
		return "", false
	}
	id = strings.TrimSpace(m[1])
	return id, id != ""
}

// ContainsLine reports whether id appears as a whole line of output.
// A line that merely starts or ends with id does not count.
func ContainsLine(output, id string) bool {
	if id == "" {
		return false
	}
	re := regexp.MustCompile(`(?m)^` + regexp.QuoteMeta(id) + `$`)
	return re.MatchString(normalizeNewlines(output))
}

// ParseIDList splits listing output (one id per line) into ids.
func ParseIDList(output string) []string {
	return strings.Fields(output)
}

// ParseBridgeAddress returns the first IPv4 address in `ip -4 addr show` output.
func ParseBridgeAddress(output string) (string, bool) {
	m := bridgeAddressRe.FindStringSubmatch(normalizeNewlines(output))
	if m == nil {
		return "", false
	}
	return m[1], true
}

// ParseVersion parses a runtime version string such as "28.3.2",
// "'24.0.7'" or "24.0.7-0ubuntu2~22.04.1".
func ParseVersion(output string) (*semver.Version, error) {
	raw := strings.Trim(strings.TrimSpace(output), `'"`)
	if raw == "" {
		return nil, errors.New("empty version output")
	}
	if v, err := semver.NewVersion(raw); err == nil {
		return v, nil
	}
	core := leadingVersionRe.FindString(raw)
	if core == "" {
		return nil, errors.Errorf("no version number in %q", raw)
	}
	v, err := semver.NewVersion(core)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid version %q", raw)
	}
	return v, nil
}
