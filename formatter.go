package log

// FormatterOptions configures a RedactingFormatter.
// Zero fields fall back to the package defaults.
type FormatterOptions struct {
	// Base renders the record before redaction. When nil, a Layout built from
	// Layout and TimeLayout is used.
	Base       Formatter
	Layout     string
	TimeLayout string
	Redaction  string
	Separator  string
}

// RedactingFormatter renders a record with a base Formatter and masks the
// configured fields in the result. Its configuration is fixed at construction,
// so one instance can serve any number of concurrent Format calls.
type RedactingFormatter struct {
	base     Formatter
	redactor *Redactor
}

// NewRedactingFormatter returns a formatter masking fields. Pattern and layout
// errors are reported here rather than on the first Format call.
func NewRedactingFormatter(fields []string, opts *FormatterOptions) (*RedactingFormatter, error) {
	if opts == nil {
		opts = &FormatterOptions{}
	}

	redaction := opts.Redaction
	if redaction == "" {
		redaction = DefaultRedaction
	}
	separator := opts.Separator
	if separator == "" {
		separator = DefaultSeparator
	}
	redactor, err := NewRedactor(fields, redaction, separator)
	if err != nil {
		return nil, err
	}

	base := opts.Base
	if base == nil {
		template := opts.Layout
		if template == "" {
			template = DefaultLayout
		}
		layout, err := NewLayout(template, opts.TimeLayout)
		if err != nil {
			return nil, err
		}
		base = layout
	}

	return &RedactingFormatter{
		base:     base,
		redactor: redactor,
	}, nil
}

// Format renders r with the base formatter and redacts the line.
// An error from the base formatter is returned as is.
func (f *RedactingFormatter) Format(r Record) (string, error) {
	line, err := f.base.Format(r)
	if err != nil {
		return "", err
	}
	return f.redactor.Redact(line), nil
}

// Redactor returns the redactor applied to every formatted line.
func (f *RedactingFormatter) Redactor() *Redactor {
	return f.redactor
}

// mustDefaultFormatter is the formatter used when no options are given.
// The defaults always compile.
func mustDefaultFormatter() *RedactingFormatter {
	f, err := NewRedactingFormatter(PIIFields(), nil)
	if err != nil {
		panic(err)
	}
	return f
}
