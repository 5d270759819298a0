package connector

import (
	"bytes"
	"io"
	"strings"
	"sync"
)

// lineSplitter is an io.Writer that hands every complete line to fn.
// stdout and stderr share one splitter per stream, and all splitters of a
// command share mu so fn is never called concurrently.
type lineSplitter struct {
	mu  *sync.Mutex
	fn  func(string)
	buf bytes.Buffer
}

func newLineSplitters(fn func(string)) (stdout, stderr *lineSplitter) {
	mu := &sync.Mutex{}
	return &lineSplitter{mu: mu, fn: fn}, &lineSplitter{mu: mu, fn: fn}
}

func (w *lineSplitter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.buf.Write(p)
	for {
		idx := bytes.IndexByte(w.buf.Bytes(), '\n')
		if idx < 0 {
			break
		}
		line := string(w.buf.Next(idx + 1))
		w.fn(strings.TrimRight(line, "\r\n"))
	}
	return len(p), nil
}

// Flush delivers a trailing line that was not newline-terminated.
func (w *lineSplitter) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.buf.Len() > 0 {
		w.fn(strings.TrimRight(w.buf.String(), "\r"))
		w.buf.Reset()
	}
}

// outputSinks wires the capture buffers and, when requested, the line callback.
type outputSinks struct {
	stdout, stderr   bytes.Buffer
	lineOut, lineErr *lineSplitter
}

func newOutputSinks(onLine func(string)) *outputSinks {
	s := &outputSinks{}
	if onLine != nil {
		s.lineOut, s.lineErr = newLineSplitters(onLine)
	}
	return s
}

func (s *outputSinks) writers() (io.Writer, io.Writer) {
	if s.lineOut == nil {
		return &s.stdout, &s.stderr
	}
	return io.MultiWriter(&s.stdout, s.lineOut), io.MultiWriter(&s.stderr, s.lineErr)
}

func (s *outputSinks) flush() {
	if s.lineOut != nil {
		s.lineOut.Flush()
		s.lineErr.Flush()
	}
}
