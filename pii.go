package log

const (
	// DefaultRedaction replaces every masked value.
	DefaultRedaction = "***"
	// DefaultSeparator ends each key=value pair.
	DefaultSeparator = ";"
	// DefaultLayout is the line template used by the built-in handlers.
	DefaultLayout = "[HOLBERTON] {name} {level} {time}: {message}"
	// DefaultTimeLayout renders {time} with millisecond precision.
	DefaultTimeLayout = "2006-01-02 15:04:05,000"
)

var piiFields = [...]string{"name", "email", "phone", "ssn", "password"}

// PIIFields returns the field names masked by default.
// Each call returns a new slice; the defaults themselves cannot be changed.
func PIIFields() []string {
	fields := make([]string, len(piiFields))
	copy(fields, piiFields[:])
	return fields
}
