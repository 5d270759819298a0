package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationErrors(t *testing.T) {
	v := &ValidationErrors{}
	assert.False(t, v.HasErrors())
	assert.NoError(t, v.OrNil())

	v.AddError("runtime.binary", "cannot be empty")
	v.Add("executor.type: unsupported value %q", "winrm")

	assert.Equal(t, 2, v.Count())
	assert.Equal(t, `runtime.binary: cannot be empty; executor.type: unsupported value "winrm"`, v.Error())
	assert.Len(t, v.GetErrors(), 2)
	assert.Error(t, v.OrNil())
}

func TestIsValidPort(t *testing.T) {
	assert.True(t, IsValidPort(22))
	assert.True(t, IsValidPort(65535))
	assert.False(t, IsValidPort(0))
	assert.False(t, IsValidPort(65536))
}
