package cmd

import (
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitPairs(t *testing.T) {
	got, err := splitPairs([]string{"A=1", "B=x=y", "C="}, "=")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"A": "1", "B": "x=y", "C": ""}, got)

	got, err = splitPairs(nil, "=")
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = splitPairs([]string{"novalue"}, ":")
	assert.Error(t, err)
	_, err = splitPairs([]string{"=1"}, "=")
	assert.Error(t, err)
}

func TestSpecFromFlags(t *testing.T) {
	createOpts.name = "web"
	createOpts.env = []string{"B=2", "A=1"}
	createOpts.links = []string{"db:postgres"}
	createOpts.ports = []string{"8080:80"}
	createOpts.detach = true
	defer func() { createOpts.env, createOpts.links, createOpts.ports = nil, nil, nil }()

	spec, err := specFromFlags([]string{"busybox", "sleep", "60"})
	require.NoError(t, err)
	assert.Equal(t, "busybox", spec.Image)
	assert.Equal(t, []string{"sleep", "60"}, spec.Cmd)
	assert.Equal(t, map[string]string{"A": "1", "B": "2"}, spec.Env)
	assert.Equal(t, map[string]string{"db": "postgres"}, spec.Links)
	assert.NoError(t, spec.Validate())
}

func TestSpecFromFlags_GeneratedName(t *testing.T) {
	createOpts.name = ""
	spec, err := specFromFlags([]string{"busybox"})
	require.NoError(t, err)
	assert.Regexp(t, `^procdriver-[0-9a-f]{12}$`, spec.Name)
	assert.NotEqual(t, spec.Name, generatedName())
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	defer rootCmd.SetArgs(nil)

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "procdriver version: dev")
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "short", truncateRunes("short", 10))
	got := truncateRunes(strings.Repeat("é", 70), maxSpinnerLine)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("é", maxSpinnerLine)+"...", got)
}
