// Package validation collects field-level validation failures.
package validation

import (
	"fmt"
	"strings"
)

// ValidationErrors accumulates every problem found in one validation pass.
type ValidationErrors struct {
	errors []string
}

func (v *ValidationErrors) Add(format string, args ...interface{}) {
	v.errors = append(v.errors, fmt.Sprintf(format, args...))
}

// AddError records message against a dotted field path such as "executor.ssh.port".
func (v *ValidationErrors) AddError(path, message string) {
	v.errors = append(v.errors, fmt.Sprintf("%s: %s", path, message))
}

func (v *ValidationErrors) Error() string {
	if len(v.errors) == 0 {
		return "no validation errors"
	}
	return strings.Join(v.errors, "; ")
}

func (v *ValidationErrors) HasErrors() bool {
	return len(v.errors) > 0
}

func (v *ValidationErrors) Count() int {
	return len(v.errors)
}

// GetErrors returns all validation errors as a slice.
func (v *ValidationErrors) GetErrors() []string {
	return v.errors
}

// OrNil returns v as an error, or nil when nothing was recorded.
func (v *ValidationErrors) OrNil() error {
	if v.HasErrors() {
		return v
	}
	return nil
}

// IsValidPort reports whether p is a usable TCP/UDP port number.
func IsValidPort(p int) bool {
	return p > 0 && p <= 65535
}
