package log

import (
	"context"
	"io"
	"strings"
	"sync"
	"time"
)

type Handler interface {
	// With returns a Handler that renders kvs on every line before the call's own pairs.
	With(kvs ...any) Handler

	// Handle handles the Log with Context, Writer, Level , Message and the arguments.
	Handle(ctx context.Context, w io.Writer, level Level, msg string, kvs ...any) error
}

// Keys for "built-in" attributes.
const (
	// ErrKey is the key used by the built-in handlers for the error message.
	ErrKey = "err"
)

const badKey = "!BADKEY"

type HandlerOptions struct {
	// Name fills Record.Name, the {name} placeholder of a Layout.
	Name string
	// Formatter renders every line. When nil, the handler masks PIIFields()
	// with the default layout.
	Formatter Formatter
	// Separator terminates each key/value pair appended to the message.
	// It should match the separator of a redacting Formatter so that
	// structured pairs are always bounded. Defaults to DefaultSeparator.
	Separator string
	// Now returns the record time. Defaults to time.Now.
	Now func() time.Time
}

type formatHandler struct {
	opts   HandlerOptions
	prefix string // pairs added by With, already rendered
	mu     *sync.Mutex
}

// NewHandler returns a Handler that renders records with opts.Formatter.
func NewHandler(opts *HandlerOptions) Handler {
	h := &formatHandler{mu: &sync.Mutex{}}
	if opts != nil {
		h.opts = *opts
	}
	if h.opts.Formatter == nil {
		h.opts.Formatter = mustDefaultFormatter()
	}
	if h.opts.Separator == "" {
		h.opts.Separator = DefaultSeparator
	}
	if h.opts.Now == nil {
		h.opts.Now = time.Now
	}
	return h
}

// Text returns a Handler masking PIIFields() with the default layout.
func Text(name ...string) Handler {
	opts := &HandlerOptions{}
	if len(name) > 0 {
		opts.Name = name[0]
	}
	return NewHandler(opts)
}

func (h *formatHandler) clone() *formatHandler {
	return &formatHandler{
		opts:   h.opts,
		prefix: h.prefix,
		mu:     h.mu, // mutex shared among all clones of this handler
	}
}

func (h *formatHandler) With(kvs ...any) Handler {
	if len(kvs) == 0 {
		return h
	}
	var b strings.Builder
	b.WriteString(h.prefix)
	appendPairs(&b, h.opts.Separator, kvs)
	h2 := h.clone()
	h2.prefix = b.String()
	return h2
}

func (h *formatHandler) Handle(ctx context.Context, w io.Writer, level Level, msg string, kvs ...any) error {
	var b strings.Builder
	b.WriteString(msg)
	if h.prefix != "" || len(kvs) > 0 {
		if msg != "" {
			b.WriteByte(' ')
		}
		b.WriteString(h.prefix)
		appendPairs(&b, h.opts.Separator, kvs)
	}

	line, err := h.opts.Formatter.Format(Record{
		Time:    h.opts.Now(),
		Level:   level,
		Name:    h.opts.Name,
		Message: b.String(),
	})
	if err != nil {
		return err
	}

	if w == nil || w == io.Discard || w == discard {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err = io.WriteString(w, line+"\n")
	return err
}

// appendPairs renders kvs as key=value<sep> pairs.
// A trailing key without a value is reported under badKey.
func appendPairs(b *strings.Builder, sep string, kvs []any) {
	for len(kvs) > 0 {
		key, ok := kvs[0].(string)
		switch {
		case !ok:
			b.WriteString(badKey)
			b.WriteByte('=')
			b.WriteString(Sprint(kvs[0]))
			kvs = kvs[1:]
		case len(kvs) == 1:
			b.WriteString(badKey)
			b.WriteByte('=')
			b.WriteString(key)
			kvs = nil
		default:
			b.WriteString(key)
			b.WriteByte('=')
			b.WriteString(Sprint(kvs[1]))
			kvs = kvs[2:]
		}
		b.WriteString(sep)
	}
}
