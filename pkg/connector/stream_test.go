package connector

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLineSplitter(t *testing.T) {
	var got []string
	out, errw := newLineSplitters(func(l string) { got = append(got, l) })

	_, _ = out.Write([]byte("Step 1/3 : FROM busy"))
	assert.Empty(t, got, "partial line must not be delivered")

	_, _ = out.Write([]byte("box\r\nStep 2/3\n\nSuccessfully"))
	_, _ = errw.Write([]byte("warning\n"))
	_, _ = out.Write([]byte(" built 0123abcd"))
	out.Flush()
	errw.Flush()

	assert.Equal(t, []string{"Step 1/3 : FROM busybox", "Step 2/3", "", "warning", "Successfully built 0123abcd"}, got)
}

func TestOutputSinks_NoCallback(t *testing.T) {
	s := newOutputSinks(nil)
	o, e := s.writers()
	_, _ = o.Write([]byte("a\n"))
	_, _ = e.Write([]byte("b\n"))
	s.flush()
	assert.Equal(t, "a\n", s.stdout.String())
	assert.Equal(t, "b\n", s.stderr.String())
}

func TestResult_Combined(t *testing.T) {
	var nilRes *Result
	assert.Equal(t, "", nilRes.Combined())
	assert.Equal(t, "out\n", (&Result{Stdout: []byte("out\n")}).Combined())
	assert.Equal(t, "out\nerr", (&Result{Stdout: []byte("out"), Stderr: []byte("err")}).Combined())
	assert.Equal(t, "err", (&Result{Stderr: []byte("err")}).Combined())
}
