package log

import (
	"io"
	"os"

	"go.uber.org/multierr"
)

type writerWrapper struct {
	io.Writer
}

func (w writerWrapper) Close() error {
	return nil
}

var discard = writerWrapper{Writer: io.Discard}

// addWriteCloser gives w a Close method. Writers that already have one keep
// it; the process streams get a no-op Close so that closing a logger never
// closes os.Stdout or os.Stderr.
func addWriteCloser(w io.Writer) io.WriteCloser {
	if w == nil {
		return nil
	}
	if w == os.Stdout || w == os.Stderr {
		return writerWrapper{w}
	}
	switch nw := w.(type) {
	case io.WriteCloser:
		return nw
	default:
		return writerWrapper{w}
	}
}

type multiWriteCloser struct {
	writers []io.Writer
}

func (t *multiWriteCloser) Write(p []byte) (n int, err error) {
	for _, w := range t.writers {
		n, err = w.Write(p)
		if err != nil {
			return
		}
		if n != len(p) {
			err = io.ErrShortWrite
			return
		}
	}
	return len(p), nil
}

// Close closes every underlying writer that is an io.Closer, except the
// standard streams, and combines their errors.
func (t *multiWriteCloser) Close() error {
	var err error
	for _, w := range t.writers {
		if closer, ok := addWriteCloser(w).(io.Closer); ok {
			err = multierr.Append(err, closer.Close())
		}
	}
	return err
}

// MultiWriteCloser creates a writer that duplicates its writes to all the
// provided writers, similar to the Unix tee(1) command. Nested
// MultiWriteClosers are flattened.
//
// Each write is written to each listed writer, one at a time.
// If a listed writer returns an error, that overall write operation
// stops and returns the error; it does not continue down the list.
func MultiWriteCloser(writers ...io.Writer) io.WriteCloser {
	allWriters := make([]io.Writer, 0, len(writers))
	for _, w := range writers {
		if mw, ok := w.(*multiWriteCloser); ok {
			allWriters = append(allWriters, mw.writers...)
		} else {
			allWriters = append(allWriters, w)
		}
	}
	return &multiWriteCloser{allWriters}
}
