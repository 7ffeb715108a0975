// Package zerologredact masks PII fields in events written by zerolog.
package zerologredact

import (
	"io"

	"github.com/rs/zerolog"

	log "github.com/nexuer/piilog"
)

// Writer redacts every event before passing it to the wrapped writer.
// zerolog writes one event per Write call.
type Writer struct {
	w        io.Writer
	redactor *log.Redactor
}

// NewWriter returns a Writer sending redacted events to w.
func NewWriter(w io.Writer, r *log.Redactor) *Writer {
	return &Writer{w: w, redactor: r}
}

func (w *Writer) Write(p []byte) (int, error) {
	if _, err := w.w.Write(w.redactor.RedactBytes(p)); err != nil {
		return 0, err
	}
	return len(p), nil
}

// WriteLevel implements zerolog.LevelWriter, forwarding the level when the
// wrapped writer is itself a LevelWriter.
func (w *Writer) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	lw, ok := w.w.(zerolog.LevelWriter)
	if !ok {
		return w.Write(p)
	}
	if _, err := lw.WriteLevel(level, w.redactor.RedactBytes(p)); err != nil {
		return 0, err
	}
	return len(p), nil
}

// New returns a zerolog.Logger writing redacted events to w.
func New(w io.Writer, r *log.Redactor) zerolog.Logger {
	return zerolog.New(NewWriter(w, r))
}
