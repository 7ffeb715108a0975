package log

import (
	"bytes"
	"errors"
	"os"
	"testing"
)

type closeRecorder struct {
	bytes.Buffer
	closed bool
	err    error
}

func (c *closeRecorder) Close() error {
	c.closed = true
	return c.err
}

func TestMultiWriteCloser(t *testing.T) {
	a, b := &closeRecorder{}, &closeRecorder{}
	logger := New(MultiWriteCloser(a, MultiWriteCloser(b, os.Stderr)), NewHandler(&HandlerOptions{
		Formatter: mustDefaultFormatter(),
		Now:       fixedNow,
	}))

	logger.Info("email=bob@example.com;")
	if a.String() != b.String() || a.Len() == 0 {
		t.Fatalf("writers diverged: %q vs %q", a.String(), b.String())
	}
	if bytes.Contains(a.Bytes(), []byte("bob@example.com")) {
		t.Errorf("unredacted output %q", a.String())
	}

	if err := logger.Close(); err != nil {
		t.Fatal(err)
	}
	if !a.closed || !b.closed {
		t.Error("underlying writers were not closed")
	}
}

func TestMultiWriteCloserCloseErrors(t *testing.T) {
	errA, errB := errors.New("a"), errors.New("b")
	w := MultiWriteCloser(&closeRecorder{err: errA}, &closeRecorder{err: errB})
	err := w.Close()
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Errorf("Close() = %v, want both errors", err)
	}
}

func TestLoggerCloseKeepsStderrOpen(t *testing.T) {
	logger := New(os.Stderr)
	if err := logger.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stderr.Write(nil); err != nil {
		t.Errorf("stderr closed by logger: %v", err)
	}
}
