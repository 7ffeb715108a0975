package log

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/multierr"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	defaultMaxSize    int64 = 1024
	defaultMaxBackups int64 = 0
	defaultOutput           = "stderr"
	defaultLevel            = "info"
	defaultDir              = "log"
)

type Options struct {
	Level      string
	Output     string
	Dir        string
	MaxSize    int64
	MaxBackups int64

	// Fields are the keys whose values are masked. Nil means PIIFields().
	Fields    []string
	Redaction string
	Separator string
	Layout    string
}

func (o *Options) Copy() *Options {
	fields := make([]string, len(o.Fields))
	copy(fields, o.Fields)
	return &Options{
		Level:      o.Level,
		Output:     o.Output,
		Dir:        o.Dir,
		MaxSize:    o.MaxSize,
		MaxBackups: o.MaxBackups,
		Fields:     fields,
		Redaction:  o.Redaction,
		Separator:  o.Separator,
		Layout:     o.Layout,
	}
}

// priorityFlags holds values set on the command line; they win over Options.
type priorityFlags struct {
	Options
	fields string
}

var priorityFlag = new(priorityFlags)

func AddFlags(fs *flag.FlagSet) {
	fs.StringVar(&priorityFlag.Level, "log-level", "",
		fmt.Sprintf(`Set the log level. One of: ["debug", "info", "warn", "error", "fatal"] (default "%s")`, defaultLevel))
	fs.StringVar(&priorityFlag.Output, "log-output", "",
		fmt.Sprintf(`Set the log output. "stdout", "stderr", "file" or a comma separated list of them (default "%s")`, defaultOutput))
	fs.StringVar(&priorityFlag.Dir, "log-dir", "",
		fmt.Sprintf(`Directory to store log files (default "%s")`, defaultDir))

	fs.Int64Var(&priorityFlag.MaxSize, "log-max-size", 0,
		fmt.Sprintf(`Maximum size of each log file in MB, 0 means the default value (default %d MB)`, defaultMaxSize))

	fs.Int64Var(&priorityFlag.MaxBackups, "log-max-backups", 0,
		fmt.Sprintf(`Maximum number of log file backups to retain, 0 means unlimited (default %d)`, defaultMaxBackups))

	fs.StringVar(&priorityFlag.fields, "log-pii-fields", "",
		fmt.Sprintf(`Comma separated keys whose values are redacted (default "%s")`, strings.Join(PIIFields(), ",")))
	fs.StringVar(&priorityFlag.Redaction, "log-redaction", "",
		fmt.Sprintf(`Text substituted for redacted values (default "%s")`, DefaultRedaction))
	fs.StringVar(&priorityFlag.Separator, "log-separator", "",
		fmt.Sprintf(`Delimiter ending each key=value pair (default "%s")`, DefaultSeparator))
	fs.StringVar(&priorityFlag.Layout, "log-layout", "",
		fmt.Sprintf(`Line template using {time}, {level}, {name} and {message} (default "%s")`, DefaultLayout))
}

func file(path string, size int64, backups int64, compress ...bool) io.Writer {
	w := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    int(size),
		MaxBackups: int(backups),
		LocalTime:  true,
	}
	if len(compress) > 0 && compress[0] {
		w.Compress = true
	}
	return w
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func mergeOptions(opts *Options) *Options {
	if opts == nil {
		opts = &Options{}
	} else {
		opts = opts.Copy()
	}

	// Apply default
	if opts.Output == "" {
		opts.Output = defaultOutput
	}
	if opts.Level == "" {
		opts.Level = defaultLevel
	}
	if opts.Dir == "" {
		opts.Dir = defaultDir
	}
	if opts.MaxSize == 0 {
		opts.MaxSize = defaultMaxSize
	}
	if opts.MaxBackups == 0 {
		opts.MaxBackups = defaultMaxBackups
	}
	if len(opts.Fields) == 0 {
		opts.Fields = PIIFields()
	}
	if opts.Redaction == "" {
		opts.Redaction = DefaultRedaction
	}
	if opts.Separator == "" {
		opts.Separator = DefaultSeparator
	}
	if opts.Layout == "" {
		opts.Layout = DefaultLayout
	}

	// Apply priority flags
	if priorityFlag.Output != "" {
		opts.Output = priorityFlag.Output
	}
	if priorityFlag.Dir != "" {
		opts.Dir = priorityFlag.Dir
	}
	if priorityFlag.Level != "" {
		opts.Level = priorityFlag.Level
	}
	if priorityFlag.MaxSize != 0 {
		opts.MaxSize = priorityFlag.MaxSize
	}
	if priorityFlag.MaxBackups != 0 {
		opts.MaxBackups = priorityFlag.MaxBackups
	}
	if fields := splitList(priorityFlag.fields); len(fields) > 0 {
		opts.Fields = fields
	}
	if priorityFlag.Redaction != "" {
		opts.Redaction = priorityFlag.Redaction
	}
	if priorityFlag.Separator != "" {
		opts.Separator = priorityFlag.Separator
	}
	if priorityFlag.Layout != "" {
		opts.Layout = priorityFlag.Layout
	}

	return opts
}

// compiled is the validated form of Options shared by every managed logger.
type compiled struct {
	level     Level
	formatter *RedactingFormatter
	outputs   []string
}

func compileOptions(opts *Options) (*compiled, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	formatter, err := NewRedactingFormatter(opts.Fields, &FormatterOptions{
		Layout:    opts.Layout,
		Redaction: opts.Redaction,
		Separator: opts.Separator,
	})
	if err != nil {
		return nil, err
	}
	outputs := splitList(strings.ToLower(opts.Output))
	for _, o := range outputs {
		switch o {
		case "stdout", "stderr", "file":
		default:
			return nil, fmt.Errorf("log: unknown output %q", o)
		}
	}
	if len(outputs) == 0 {
		outputs = []string{defaultOutput}
	}
	return &compiled{level: level, formatter: formatter, outputs: outputs}, nil
}

type loggerWithKvs struct {
	kvs    []any
	logger *Logger
}

type Manager struct {
	mu     sync.Mutex
	opts   *Options
	conf   *compiled
	name   string
	main   *loggerWithKvs
	others map[string]*loggerWithKvs
}

// NewManager returns a Manager whose main logger is called name. The default
// options, overridden by any flags registered with AddFlags, must be valid.
func NewManager(name string, kvs ...any) (*Manager, error) {
	opts := mergeOptions(nil)
	conf, err := compileOptions(opts)
	if err != nil {
		return nil, err
	}
	m := &Manager{
		opts: opts,
		conf: conf,
		name: name,
		main: &loggerWithKvs{
			kvs: kvs,
		},
		others: make(map[string]*loggerWithKvs),
	}

	m.initLogger(name, true)
	return m, nil
}

// kvs returns the main logger's pairs followed by kvs.
func (m *Manager) kvs(kvs []any) []any {
	if len(kvs) == 0 {
		return m.main.kvs
	}
	nkvs := make([]any, 0, len(kvs)+len(m.main.kvs))
	nkvs = append(nkvs, m.main.kvs...)
	return append(nkvs, kvs...)
}

func (m *Manager) visitAll(fn func(name string, l *Logger, kvs []any)) {
	if m.main != nil {
		fn(m.name, m.main.logger, nil)
	}
	for name, lk := range m.others {
		fn(name, lk.logger, lk.kvs)
	}
}

// Apply validates opts and reconfigures every managed logger. Invalid options
// are rejected before any logger changes.
func (m *Manager) Apply(opts *Options) (*Options, error) {
	merged := mergeOptions(opts)
	conf, err := compileOptions(merged)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.opts = merged
	m.conf = conf

	m.visitAll(func(name string, l *Logger, kvs []any) {
		m.set(name, l, kvs)
	})

	return m.opts.Copy(), nil
}

// Options returns a copy of the options in effect.
func (m *Manager) Options() *Options {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.opts.Copy()
}

// writer builds the output of logger name. reused reports whether the
// rotating file l already writes to is part of the new output.
func (m *Manager) writer(name string, l *Logger) (w io.Writer, newPath string, reused bool) {
	var writers []io.Writer
	for _, o := range m.conf.outputs {
		switch o {
		case "file":
			path := filepath.Join(m.opts.Dir, name+".log")
			if f := currentFile(l.Writer()); f != nil && f.Filename == path {
				writers = append(writers, f)
				reused = true
				continue
			}
			writers = append(writers, file(path, m.opts.MaxSize, m.opts.MaxBackups))
			newPath = path
		case "stdout":
			writers = append(writers, os.Stdout)
		default:
			writers = append(writers, os.Stderr)
		}
	}
	if len(writers) == 1 {
		return writers[0], newPath, reused
	}
	return MultiWriteCloser(writers...), newPath, reused
}

// currentFile returns the rotating file a logger already writes to, if any.
func currentFile(w io.Writer) *lumberjack.Logger {
	switch fw := w.(type) {
	case *lumberjack.Logger:
		return fw
	case *multiWriteCloser:
		for _, inner := range fw.writers {
			if f, ok := inner.(*lumberjack.Logger); ok {
				return f
			}
		}
	}
	return nil
}

func (m *Manager) handler(name string, kvs []any) Handler {
	return NewHandler(&HandlerOptions{
		Name:      name,
		Formatter: m.conf.formatter,
		Separator: m.opts.Separator,
	}).With(m.kvs(kvs)...)
}

func (m *Manager) set(name string, l *Logger, kvs []any) {
	l.SetLevel(m.conf.level)
	l.SetHandler(m.handler(name, kvs))
	w, newPath, reused := m.writer(name, l)
	if newPath != "" {
		l.Infof("redirecting log output to file %q", newPath)
	}
	if !reused && l.Writer() != w {
		// the previous output is dropped; release its file
		if err := l.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
			ErrorHandler(err)
		}
	}
	l.SetOutput(w)
}

func (m *Manager) initLogger(name string, main bool, kvs ...any) *Logger {
	logger := New(os.Stderr)

	m.set(name, logger, kvs)

	if main {
		m.main.logger = logger
		return logger
	}
	m.others[name] = &loggerWithKvs{
		kvs:    kvs,
		logger: logger,
	}
	return logger
}

// Add registers a logger called name. Its lines carry kvs before the pairs of
// each call.
func (m *Manager) Add(name string, kvs ...any) (*Logger, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if name == m.name {
		return nil, fmt.Errorf(`log: %q logger already exists`, name)
	}
	if _, ok := m.others[name]; ok {
		return nil, fmt.Errorf(`log: %q logger already exists`, name)
	}
	return m.initLogger(name, false, kvs...), nil
}

func (m *Manager) AddWithSuffix(suffix string, kvs ...any) (*Logger, error) {
	return m.Add(m.name+suffix, kvs...)
}

func (m *Manager) Logger(name ...string) *Logger {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(name) == 0 || name[0] == m.name {
		return m.main.logger
	}

	if m.others[name[0]] != nil {
		return m.others[name[0]].logger
	}

	return m.main.logger
}

func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var errs error
	m.visitAll(func(name string, l *Logger, kvs []any) {
		if err := l.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
			errs = multierr.Append(errs, err)
		}
	})
	return errs
}
