package log

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrBadLayout is returned for a line template that cannot be compiled.
var ErrBadLayout = errors.New("log: bad layout")

// Record is a single log event handed to a Formatter.
type Record struct {
	Time    time.Time
	Level   Level
	Name    string
	Message string
}

// Formatter renders a Record into one log line (without the trailing newline).
type Formatter interface {
	Format(r Record) (string, error)
}

type segmentKind int

const (
	segLiteral segmentKind = iota
	segTime
	segLevel
	segName
	segMessage
)

var placeholders = map[string]segmentKind{
	"time":    segTime,
	"level":   segLevel,
	"name":    segName,
	"message": segMessage,
}

type segment struct {
	kind segmentKind
	text string
}

// Layout is a Formatter driven by a line template.
//
// The template is literal text with the placeholders {time}, {level}, {name}
// and {message}. A literal brace is written as {{ or }}.
type Layout struct {
	template   string
	timeLayout string
	segments   []segment
}

// NewLayout compiles template. An empty timeLayout selects DefaultTimeLayout.
func NewLayout(template, timeLayout string) (*Layout, error) {
	if timeLayout == "" {
		timeLayout = DefaultTimeLayout
	}
	segs, err := parseLayout(template)
	if err != nil {
		return nil, err
	}
	return &Layout{
		template:   template,
		timeLayout: timeLayout,
		segments:   segs,
	}, nil
}

func parseLayout(template string) ([]segment, error) {
	var (
		segs []segment
		lit  strings.Builder
	)
	flush := func() {
		if lit.Len() > 0 {
			segs = append(segs, segment{kind: segLiteral, text: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(template); i++ {
		c := template[i]
		switch {
		case c == '{' && i+1 < len(template) && template[i+1] == '{':
			lit.WriteByte('{')
			i++
		case c == '}' && i+1 < len(template) && template[i+1] == '}':
			lit.WriteByte('}')
			i++
		case c == '{':
			end := strings.IndexByte(template[i+1:], '}')
			if end < 0 {
				return nil, fmt.Errorf("%w: unterminated placeholder at offset %d", ErrBadLayout, i)
			}
			name := template[i+1 : i+1+end]
			kind, ok := placeholders[name]
			if !ok {
				return nil, fmt.Errorf("%w: unknown placeholder {%s}", ErrBadLayout, name)
			}
			flush()
			segs = append(segs, segment{kind: kind})
			i += end + 1
		case c == '}':
			return nil, fmt.Errorf("%w: unmatched '}' at offset %d", ErrBadLayout, i)
		default:
			lit.WriteByte(c)
		}
	}
	flush()
	return segs, nil
}

// Format renders r. It never fails.
func (l *Layout) Format(r Record) (string, error) {
	var b strings.Builder
	b.Grow(len(l.template) + len(r.Message) + len(l.timeLayout))
	for _, s := range l.segments {
		switch s.kind {
		case segLiteral:
			b.WriteString(s.text)
		case segTime:
			b.WriteString(r.Time.Format(l.timeLayout))
		case segLevel:
			b.WriteString(r.Level.String())
		case segName:
			b.WriteString(r.Name)
		case segMessage:
			b.WriteString(r.Message)
		}
	}
	return b.String(), nil
}

// String returns the template l was compiled from.
func (l *Layout) String() string {
	return l.template
}
