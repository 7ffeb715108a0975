// Package logrusredact masks PII fields in lines produced by a logrus formatter.
package logrusredact

import (
	"github.com/sirupsen/logrus"

	log "github.com/nexuer/piilog"
)

// Formatter wraps a logrus.Formatter and redacts every line it produces.
type Formatter struct {
	base     logrus.Formatter
	redactor *log.Redactor
}

// New returns a Formatter masking fields with log.DefaultRedaction and
// log.DefaultSeparator. A nil base selects logrus' TextFormatter.
func New(base logrus.Formatter, fields ...string) (*Formatter, error) {
	r, err := log.NewRedactor(fields, log.DefaultRedaction, log.DefaultSeparator)
	if err != nil {
		return nil, err
	}
	return NewWithRedactor(base, r), nil
}

// NewWithRedactor returns a Formatter using r.
func NewWithRedactor(base logrus.Formatter, r *log.Redactor) *Formatter {
	if base == nil {
		base = &logrus.TextFormatter{DisableColors: true}
	}
	return &Formatter{base: base, redactor: r}
}

// Format implements logrus.Formatter. Errors from the base formatter are
// returned unchanged.
func (f *Formatter) Format(e *logrus.Entry) ([]byte, error) {
	b, err := f.base.Format(e)
	if err != nil {
		return nil, err
	}
	return f.redactor.RedactBytes(b), nil
}
