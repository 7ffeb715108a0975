package log

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrEmptySeparator is returned when a Redactor is built without a separator.
	ErrEmptySeparator = errors.New("log: redaction separator must not be empty")
	// ErrEmptyField is returned when the field set contains an empty name.
	ErrEmptyField = errors.New("log: redaction field name must not be empty")
)

// Redactor masks the values of a fixed set of fields in key=value lines.
//
// For every field it matches the literal text "<field>=" followed by the
// shortest run of characters up to and including the next separator, and
// replaces it with "<field>=<redaction><separator>". Everything outside a
// matched span is left untouched.
//
// A pair that is not followed by a separator is not masked: the separator is
// what bounds the value. This means the last pair of a line without a
// trailing separator passes through in clear text.
//
// Values may span newlines. A value left unterminated on one line runs on
// to the next separator, so "password=abc\nname=bob;" becomes
// "password=***;" and the line break is masked along with it.
//
// A Redactor is immutable and safe for concurrent use.
type Redactor struct {
	fields    []string
	redaction string
	separator string
	re        *regexp.Regexp
	repl      string
}

// NewRedactor compiles fields, redaction and separator into a Redactor.
// Field names and the separator are matched literally. Duplicate field names
// are dropped, keeping the first occurrence, so the compiled pattern only
// depends on the input order.
func NewRedactor(fields []string, redaction, separator string) (*Redactor, error) {
	if separator == "" {
		return nil, ErrEmptySeparator
	}

	r := &Redactor{
		redaction: redaction,
		separator: separator,
	}

	seen := make(map[string]struct{}, len(fields))
	quoted := make([]string, 0, len(fields))
	for _, f := range fields {
		if f == "" {
			return nil, ErrEmptyField
		}
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		r.fields = append(r.fields, f)
		quoted = append(quoted, regexp.QuoteMeta(f))
	}

	if len(quoted) == 0 {
		return r, nil
	}

	// (?s) lets a value run across newlines up to its separator.
	expr := `(?s)(` + strings.Join(quoted, "|") + `)=.*?` + regexp.QuoteMeta(separator)
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("log: compile redaction pattern: %w", err)
	}
	r.re = re
	r.repl = "${1}=" + escapeTemplate(redaction) + escapeTemplate(separator)
	return r, nil
}

// escapeTemplate protects '$' in literal text used as a regexp expansion template.
func escapeTemplate(s string) string {
	return strings.ReplaceAll(s, "$", "$$")
}

// Redact returns message with the value of every configured field replaced.
func (r *Redactor) Redact(message string) string {
	if r.re == nil || message == "" {
		return message
	}
	return r.re.ReplaceAllString(message, r.repl)
}

// RedactBytes is like Redact for byte slices. The input is never modified.
func (r *Redactor) RedactBytes(message []byte) []byte {
	if r.re == nil || len(message) == 0 {
		return message
	}
	return r.re.ReplaceAll(message, []byte(r.repl))
}

// Fields returns a copy of the field names, in pattern order.
func (r *Redactor) Fields() []string {
	fields := make([]string, len(r.fields))
	copy(fields, r.fields)
	return fields
}

// Redaction returns the token substituted for masked values.
func (r *Redactor) Redaction() string { return r.redaction }

// Separator returns the pair delimiter.
func (r *Redactor) Separator() string { return r.separator }

// Redact masks the value of each field in message with redaction.
//
// It is the one-shot form of NewRedactor(fields, redaction, separator).Redact(message).
// Empty field names are ignored and an empty field set returns message
// unchanged. It panics if separator is empty; use NewRedactor to get an
// error instead.
func Redact(fields []string, redaction, message, separator string) string {
	named := make([]string, 0, len(fields))
	for _, f := range fields {
		if f != "" {
			named = append(named, f)
		}
	}
	r, err := NewRedactor(named, redaction, separator)
	if err != nil {
		panic(err)
	}
	return r.Redact(message)
}
