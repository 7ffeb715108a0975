package log

import (
	"fmt"
	"os"
	"sync/atomic"
)

var (
	// ErrorHandler is called whenever fails to write an event on its
	// output. default an error is printed on the stderr. This handler must
	// be thread safe and non-blocking.
	ErrorHandler func(err error) = func(err error) {
		_, _ = fmt.Fprintf(os.Stderr, "log: write failed, %v\n", err)
	}
)

var (
	// Sprint renders message arguments and pair values.
	// The caller can replace this function to customize the log message formatting.
	Sprint func(a ...any) string = fmt.Sprint
	// Sprintf renders messages of the f variants (Infof, ...).
	Sprintf func(format string, a ...any) string = fmt.Sprintf
)

var (
	defaultLogger  atomic.Pointer[Logger]
	defaultManager atomic.Pointer[Manager]
)

func init() {
	SetDefault(New(os.Stderr))
}

// SetDefault makes l the default [Logger], which is used by
// the top-level functions [Info], [Debug] and so on.
func SetDefault(l *Logger) {
	if l == nil {
		return
	}
	defaultLogger.Store(l)
}

// Default returns the default [Logger].
func Default() *Logger { return defaultLogger.Load() }

// InitManager builds the global manager from the default options (and any
// flags registered with AddFlags) and makes its main logger the default.
func InitManager(name string, kvs ...any) error {
	m, err := NewManager(name, kvs...)
	if err != nil {
		return err
	}
	defaultManager.Store(m)
	SetDefault(m.Logger())
	return nil
}

func M() *Manager {
	m := defaultManager.Load()
	if m == nil {
		panic("log: uninitialized manager not (forgotten use log.InitManager(name)?")
	}
	return m
}

func Close() error {
	m := defaultManager.Load()
	if m != nil {
		return m.Close()
	}
	return Default().Close()
}

// Debug logs a message at debug level.
func Debug(args ...any) {
	Default().Debug(args...)
}

// Debugf logs a message at debug level.
func Debugf(format string, args ...any) {
	Default().Debugf(format, args...)
}

// DebugS logs a message at debug level with fields.
func DebugS(msg string, kvs ...any) {
	Default().DebugS(msg, kvs...)
}

// Info logs a message at info level.
func Info(args ...any) {
	Default().Info(args...)
}

// Infof logs a message at info level.
func Infof(format string, args ...any) {
	Default().Infof(format, args...)
}

// InfoS logs a message at info level with fields.
func InfoS(msg string, kvs ...any) {
	Default().InfoS(msg, kvs...)
}

// Warn logs a message at warn level.
func Warn(args ...any) {
	Default().Warn(args...)
}

// Warnf logs a message at warn level.
func Warnf(format string, args ...any) {
	Default().Warnf(format, args...)
}

// WarnS logs a message at warn level with fields.
func WarnS(msg string, kvs ...any) {
	Default().WarnS(msg, kvs...)
}

// Error logs a message at error level.
func Error(args ...any) {
	Default().Error(args...)
}

// Errorf logs a message at error level.
func Errorf(format string, args ...any) {
	Default().Errorf(format, args...)
}

// ErrorS logs a message at error level with fields.
func ErrorS(err error, msg string, kvs ...any) {
	Default().ErrorS(err, msg, kvs...)
}

// Fatal logs a message at fatal level.
func Fatal(args ...any) {
	Default().Fatal(args...)
}

// Fatalf logs a message at fatal level.
func Fatalf(format string, args ...any) {
	Default().Fatalf(format, args...)
}

// FatalS logs a message at fatal level with key vals.
func FatalS(err error, msg string, kvs ...any) {
	Default().FatalS(err, msg, kvs...)
}
