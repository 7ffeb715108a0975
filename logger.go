package log

import (
	"context"
	"io"
	"os"
	"strings"
)

// Logger writes redacted lines to an io.Writer through a Handler.
type Logger struct {
	ctx     context.Context
	level   Level
	handler Handler
	w       io.WriteCloser
}

// New returns a Logger writing to w. Without a handler it uses Text(), which
// masks PIIFields() with the default layout.
func New(w io.Writer, h ...Handler) *Logger {
	if w == nil {
		w = io.Discard
	}
	l := &Logger{
		ctx: context.Background(),
		w:   addWriteCloser(w),
	}
	if len(h) > 0 && h[0] != nil {
		l.handler = h[0]
	} else {
		l.handler = Text()
	}
	return l
}

func (l *Logger) clone() *Logger {
	return &Logger{
		ctx:     l.ctx,
		w:       l.w,
		level:   l.level,
		handler: l.handler,
	}
}

func (l *Logger) Close() error {
	if l.w == nil {
		return nil
	}
	return l.w.Close()
}

func (l *Logger) Writer() io.Writer {
	switch w := l.w.(type) {
	case writerWrapper:
		return w.Writer
	default:
		return l.w
	}
}

func (l *Logger) Context() context.Context {
	return l.ctx
}

func (l *Logger) Level() Level {
	return l.level
}

// SetLevel set the current minimum severity level for
// logging output. Note: This is not concurrency-safe.
func (l *Logger) SetLevel(level Level) *Logger {
	l.level = level
	return l
}

// SetOutput set the current io.Writer
// Note: This is not concurrency-safe.
func (l *Logger) SetOutput(w io.Writer) *Logger {
	if l.Writer() == w {
		return l
	}
	l.w = addWriteCloser(w)
	return l
}

// SetHandler set the current Handler
// Note: This is not concurrency-safe.
func (l *Logger) SetHandler(h Handler) *Logger {
	l.handler = h
	return l
}

// Write logs p at info level, so that a Logger can back a standard
// library *log.Logger. A single trailing newline is dropped.
func (l *Logger) Write(p []byte) (n int, err error) {
	err = l.log(LevelInfo, strings.TrimSuffix(string(p), "\n"), nil)
	if err != nil {
		return 0, err
	}
	return len(p), nil
}

func (l *Logger) log(level Level, template string, fmtArgs []any, kvs ...any) error {
	if !l.level.Enable(level) || l.handler == nil {
		return nil
	}
	return l.handler.Handle(l.ctx, l.w, level, getMessage(template, fmtArgs), kvs...)
}

func (l *Logger) Log(ctx context.Context, level Level, msg string, kvs ...any) error {
	if !l.level.Enable(level) || l.handler == nil {
		return nil
	}
	return l.handler.Handle(ctx, l.w, level, msg, kvs...)
}

// With returns a Logger that appends kvs to every line.
func (l *Logger) With(kvs ...any) *Logger {
	if len(kvs) == 0 || l.handler == nil {
		return l
	}
	l2 := l.clone()
	l2.handler = l.handler.With(kvs...)
	return l2
}

func (l *Logger) WithContext(ctx context.Context) *Logger {
	l2 := l.clone()
	l2.ctx = ctx
	return l2
}

// Debug logs a message at debug level.
func (l *Logger) Debug(args ...any) {
	errorHandler(l.log(LevelDebug, "", args))
}

// Debugf logs a message at debug level.
func (l *Logger) Debugf(format string, args ...any) {
	errorHandler(l.log(LevelDebug, format, args))
}

// DebugS logs a message at debug level with key vals.
func (l *Logger) DebugS(msg string, kvs ...any) {
	errorHandler(l.log(LevelDebug, msg, nil, kvs...))
}

// Info logs a message at info level.
func (l *Logger) Info(args ...any) {
	errorHandler(l.log(LevelInfo, "", args))
}

// Infof logs a message at info level.
func (l *Logger) Infof(format string, args ...any) {
	errorHandler(l.log(LevelInfo, format, args))
}

// InfoS logs a message at info level with key vals.
func (l *Logger) InfoS(msg string, kvs ...any) {
	errorHandler(l.log(LevelInfo, msg, nil, kvs...))
}

// Warn logs a message at warn level.
func (l *Logger) Warn(args ...any) {
	errorHandler(l.log(LevelWarn, "", args))
}

// Warnf logs a message at warn level.
func (l *Logger) Warnf(format string, args ...any) {
	errorHandler(l.log(LevelWarn, format, args))
}

// WarnS logs a message at warn level with key vals.
func (l *Logger) WarnS(msg string, kvs ...any) {
	errorHandler(l.log(LevelWarn, msg, nil, kvs...))
}

// Error logs a message at error level.
func (l *Logger) Error(args ...any) {
	errorHandler(l.log(LevelError, "", args))
}

// Errorf logs a message at error level.
func (l *Logger) Errorf(format string, args ...any) {
	errorHandler(l.log(LevelError, format, args))
}

// ErrorS logs a message at error level with key vals.
func (l *Logger) ErrorS(err error, msg string, kvs ...any) {
	errorHandler(l.log(LevelError, msg, nil, withErr(err, kvs)...))
}

// Fatal logs a message at fatal level and exits.
func (l *Logger) Fatal(args ...any) {
	errorHandler(l.log(LevelFatal, "", args))
	os.Exit(1)
}

// Fatalf logs a message at fatal level and exits.
func (l *Logger) Fatalf(format string, args ...any) {
	errorHandler(l.log(LevelFatal, format, args))
	os.Exit(1)
}

// FatalS logs a message at fatal level with key vals and exits.
func (l *Logger) FatalS(err error, msg string, kvs ...any) {
	errorHandler(l.log(LevelFatal, msg, nil, withErr(err, kvs)...))
	os.Exit(1)
}

// withErr prepends err under ErrKey.
func withErr(err error, kvs []any) []any {
	if err == nil {
		return kvs
	}
	nv := make([]any, 0, len(kvs)+2)
	nv = append(nv, ErrKey, err.Error())
	return append(nv, kvs...)
}

// getMessage format with Sprint, Sprintf, or neither.
func getMessage(template string, fmtArgs []any) string {
	if len(fmtArgs) == 0 {
		return template
	}

	if template != "" {
		return Sprintf(template, fmtArgs...)
	}

	if len(fmtArgs) == 1 {
		if str, ok := fmtArgs[0].(string); ok {
			return str
		}
	}
	return Sprint(fmtArgs...)
}

func errorHandler(err error) {
	if err == nil {
		return
	}
	if ErrorHandler != nil {
		ErrorHandler(err)
	}
}
