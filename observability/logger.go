package observability

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/willibrandon/mtlog"
	"github.com/willibrandon/mtlog/core"
	"github.com/willibrandon/mtlog/sinks"
)

// Logger is the structured logger used by the readers, writers and the CLI.
// Message templates use mtlog's {Property} syntax.
type Logger interface {
	Verbose(messageTemplate string, args ...any)
	VerboseContext(ctx context.Context, messageTemplate string, args ...any)

	Debug(messageTemplate string, args ...any)
	DebugContext(ctx context.Context, messageTemplate string, args ...any)

	Info(messageTemplate string, args ...any)
	InfoContext(ctx context.Context, messageTemplate string, args ...any)

	Warn(messageTemplate string, args ...any)
	WarnContext(ctx context.Context, messageTemplate string, args ...any)

	Error(messageTemplate string, args ...any)
	ErrorContext(ctx context.Context, messageTemplate string, args ...any)

	Fatal(messageTemplate string, args ...any)
	FatalContext(ctx context.Context, messageTemplate string, args ...any)

	// ForContext returns a child logger that adds key to every event.
	ForContext(key string, value any) Logger

	// WithProperty is ForContext.
	WithProperty(key string, value any) Logger
}

type mtlogAdapter struct {
	logger core.Logger
}

// NewLogger creates a console logger writing to output at level and above.
func NewLogger(output io.Writer, level LogLevel) Logger {
	consoleSink := sinks.NewConsoleSinkWithWriter(output)

	opts := []mtlog.Option{
		mtlog.WithSink(consoleSink),
		mtlog.WithTimestamp(),
	}

	switch level {
	case VerboseLevel:
		opts = append(opts, mtlog.Verbose())
	case DebugLevel:
		opts = append(opts, mtlog.Debug())
	case InfoLevel:
		opts = append(opts, mtlog.Information())
	case WarnLevel:
		opts = append(opts, mtlog.Warning())
	case ErrorLevel:
		opts = append(opts, mtlog.Error())
	case FatalLevel:
		opts = append(opts, mtlog.WithMinimumLevel(core.FatalLevel))
	}

	return &mtlogAdapter{logger: mtlog.New(opts...)}
}

// NewDefaultLogger logs to stderr at Info level, keeping stdout free for
// rendered documents.
func NewDefaultLogger() Logger {
	return NewLogger(os.Stderr, InfoLevel)
}

func (a *mtlogAdapter) Verbose(messageTemplate string, args ...any) {
	a.logger.Verbose(messageTemplate, args...)
}

func (a *mtlogAdapter) VerboseContext(ctx context.Context, messageTemplate string, args ...any) {
	a.logger.VerboseContext(ctx, messageTemplate, args...)
}

func (a *mtlogAdapter) Debug(messageTemplate string, args ...any) {
	a.logger.Debug(messageTemplate, args...)
}

func (a *mtlogAdapter) DebugContext(ctx context.Context, messageTemplate string, args ...any) {
	a.logger.DebugContext(ctx, messageTemplate, args...)
}

func (a *mtlogAdapter) Info(messageTemplate string, args ...any) {
	a.logger.Info(messageTemplate, args...)
}

func (a *mtlogAdapter) InfoContext(ctx context.Context, messageTemplate string, args ...any) {
	a.logger.InfoContext(ctx, messageTemplate, args...)
}

func (a *mtlogAdapter) Warn(messageTemplate string, args ...any) {
	a.logger.Warn(messageTemplate, args...)
}

func (a *mtlogAdapter) WarnContext(ctx context.Context, messageTemplate string, args ...any) {
	a.logger.WarnContext(ctx, messageTemplate, args...)
}

func (a *mtlogAdapter) Error(messageTemplate string, args ...any) {
	a.logger.Error(messageTemplate, args...)
}

func (a *mtlogAdapter) ErrorContext(ctx context.Context, messageTemplate string, args ...any) {
	a.logger.ErrorContext(ctx, messageTemplate, args...)
}

func (a *mtlogAdapter) Fatal(messageTemplate string, args ...any) {
	a.logger.Fatal(messageTemplate, args...)
}

func (a *mtlogAdapter) FatalContext(ctx context.Context, messageTemplate string, args ...any) {
	a.logger.FatalContext(ctx, messageTemplate, args...)
}

func (a *mtlogAdapter) ForContext(key string, value any) Logger {
	return &mtlogAdapter{logger: a.logger.ForContext(key, value)}
}

func (a *mtlogAdapter) WithProperty(key string, value any) Logger {
	return a.ForContext(key, value)
}

// LogLevel is the minimum level a logger emits.
type LogLevel int

const (
	VerboseLevel LogLevel = iota
	DebugLevel
	InfoLevel
	WarnLevel
	ErrorLevel
	FatalLevel
)

// ParseLogLevel maps a level name used in configuration files and flags to
// a LogLevel. Unknown names yield InfoLevel and false.
func ParseLogLevel(name string) (LogLevel, bool) {
	switch name {
	case "verbose", "trace":
		return VerboseLevel, true
	case "debug":
		return DebugLevel, true
	case "info", "information", "":
		return InfoLevel, true
	case "warn", "warning":
		return WarnLevel, true
	case "error":
		return ErrorLevel, true
	case "fatal":
		return FatalLevel, true
	}
	return InfoLevel, false
}

type nullLogger struct{}

// NewNullLogger creates a logger that discards everything.
func NewNullLogger() Logger {
	return &nullLogger{}
}

func (n *nullLogger) Verbose(messageTemplate string, args ...any)                             {}
func (n *nullLogger) VerboseContext(ctx context.Context, messageTemplate string, args ...any) {}
func (n *nullLogger) Debug(messageTemplate string, args ...any)                               {}
func (n *nullLogger) DebugContext(ctx context.Context, messageTemplate string, args ...any)   {}
func (n *nullLogger) Info(messageTemplate string, args ...any)                                {}
func (n *nullLogger) InfoContext(ctx context.Context, messageTemplate string, args ...any)    {}
func (n *nullLogger) Warn(messageTemplate string, args ...any)                                {}
func (n *nullLogger) WarnContext(ctx context.Context, messageTemplate string, args ...any)    {}
func (n *nullLogger) Error(messageTemplate string, args ...any)                               {}
func (n *nullLogger) ErrorContext(ctx context.Context, messageTemplate string, args ...any)   {}
func (n *nullLogger) Fatal(messageTemplate string, args ...any)                               {}
func (n *nullLogger) FatalContext(ctx context.Context, messageTemplate string, args ...any)   {}
func (n *nullLogger) ForContext(key string, value any) Logger                                 { return n }
func (n *nullLogger) WithProperty(key string, value any) Logger                               { return n }

// Event is one warning or error seen by a CountingLogger.
type Event struct {
	Level    LogLevel
	Template string
	Args     []any
}

type eventLog struct {
	mu     sync.Mutex
	events []Event
}

func (l *eventLog) add(level LogLevel, template string, args []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, Event{Level: level, Template: template, Args: args})
}

// CountingLogger forwards to an inner logger and records every warning and
// error. Child loggers share the record. The CLI uses it to turn logged
// read failures into a non-zero exit status.
type CountingLogger struct {
	Logger
	log *eventLog
}

// NewCountingLogger wraps inner; a nil inner discards output.
func NewCountingLogger(inner Logger) *CountingLogger {
	if inner == nil {
		inner = NewNullLogger()
	}
	return &CountingLogger{Logger: inner, log: &eventLog{}}
}

func (c *CountingLogger) Warn(messageTemplate string, args ...any) {
	c.log.add(WarnLevel, messageTemplate, args)
	c.Logger.Warn(messageTemplate, args...)
}

func (c *CountingLogger) WarnContext(ctx context.Context, messageTemplate string, args ...any) {
	c.log.add(WarnLevel, messageTemplate, args)
	c.Logger.WarnContext(ctx, messageTemplate, args...)
}

func (c *CountingLogger) Error(messageTemplate string, args ...any) {
	c.log.add(ErrorLevel, messageTemplate, args)
	c.Logger.Error(messageTemplate, args...)
}

func (c *CountingLogger) ErrorContext(ctx context.Context, messageTemplate string, args ...any) {
	c.log.add(ErrorLevel, messageTemplate, args)
	c.Logger.ErrorContext(ctx, messageTemplate, args...)
}

func (c *CountingLogger) ForContext(key string, value any) Logger {
	return &CountingLogger{Logger: c.Logger.ForContext(key, value), log: c.log}
}

func (c *CountingLogger) WithProperty(key string, value any) Logger {
	return c.ForContext(key, value)
}

// Events returns a copy of the recorded events.
func (c *CountingLogger) Events() []Event {
	c.log.mu.Lock()
	defer c.log.mu.Unlock()
	out := make([]Event, len(c.log.events))
	copy(out, c.log.events)
	return out
}

// Warnings returns the number of warnings logged.
func (c *CountingLogger) Warnings() int { return c.count(WarnLevel) }

// Errors returns the number of errors logged.
func (c *CountingLogger) Errors() int { return c.count(ErrorLevel) }

func (c *CountingLogger) count(level LogLevel) int {
	c.log.mu.Lock()
	defer c.log.mu.Unlock()
	n := 0
	for _, e := range c.log.events {
		if e.Level == level {
			n++
		}
	}
	return n
}
