// Package logger wraps charmbracelet/log behind a small interface that
// travels in contexts.
package logger

import (
	"context"
	"flag"
	"io"
	"os"
	"strings"
	"sync/atomic"

	charmlog "github.com/charmbracelet/log"
)

// Logger is the structured logger every package receives.
type Logger interface {
	Debug(msg string, keyvals ...any)
	Info(msg string, keyvals ...any)
	Warn(msg string, keyvals ...any)
	Error(msg string, keyvals ...any)
	With(keyvals ...any) Logger
}

type Level string

const (
	DebugLevel    Level = "debug"
	InfoLevel     Level = "info"
	WarnLevel     Level = "warn"
	ErrorLevel    Level = "error"
	DisabledLevel Level = "disabled"
)

// silent sits above every level charm emits.
const silent charmlog.Level = 1000

var charmLevels = map[Level]charmlog.Level{
	DebugLevel:    charmlog.DebugLevel,
	InfoLevel:     charmlog.InfoLevel,
	WarnLevel:     charmlog.WarnLevel,
	ErrorLevel:    charmlog.ErrorLevel,
	DisabledLevel: silent,
}

// ParseLevel maps a flag or config value onto a Level; unknown values are info.
func ParseLevel(s string) Level {
	level := Level(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := charmLevels[level]; ok {
		return level
	}
	return InfoLevel
}

func (l Level) charm() charmlog.Level {
	if level, ok := charmLevels[l]; ok {
		return level
	}
	return charmlog.InfoLevel
}

// Options configures New. A nil Output means stderr, which keeps JSON
// command output on stdout parseable.
type Options struct {
	Level  Level
	Output io.Writer
	JSON   bool
	Source bool
}

type charmLogger struct {
	l *charmlog.Logger
}

func (c charmLogger) Debug(msg string, keyvals ...any) { c.l.Debug(msg, keyvals...) }
func (c charmLogger) Info(msg string, keyvals ...any)  { c.l.Info(msg, keyvals...) }
func (c charmLogger) Warn(msg string, keyvals ...any)  { c.l.Warn(msg, keyvals...) }
func (c charmLogger) Error(msg string, keyvals ...any) { c.l.Error(msg, keyvals...) }

func (c charmLogger) With(keyvals ...any) Logger {
	return charmLogger{c.l.With(keyvals...)}
}

func New(opts Options) Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	l := charmlog.NewWithOptions(out, charmlog.Options{
		Level:           opts.Level.charm(),
		ReportCaller:    opts.Source,
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
	})
	if opts.JSON {
		l.SetFormatter(charmlog.JSONFormatter)
	} else {
		l.SetStyles(levelStyles())
	}
	return charmLogger{l}
}

// Discard returns a logger that drops everything.
func Discard() Logger {
	return New(Options{Level: DisabledLevel, Output: io.Discard})
}

var defaultLogger atomic.Pointer[Logger]

// Setup installs the process-wide default logger.
func Setup(level string, json, source bool) {
	SetDefault(New(Options{Level: ParseLevel(level), JSON: json, Source: source}))
}

func SetDefault(l Logger) {
	defaultLogger.Store(&l)
}

// GetDefault returns the installed logger. Before Setup runs it logs info to
// stderr, or nothing under go test.
func GetDefault() Logger {
	if l := defaultLogger.Load(); l != nil {
		return *l
	}
	l := New(Options{Level: InfoLevel})
	if underTest() {
		l = Discard()
	}
	defaultLogger.CompareAndSwap(nil, &l)
	return *defaultLogger.Load()
}

func underTest() bool {
	return flag.Lookup("test.v") != nil || strings.HasSuffix(os.Args[0], ".test")
}

type ctxKey struct{}

func ContextWithLogger(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the logger stored in ctx or the default one.
func FromContext(ctx context.Context) Logger {
	if ctx != nil {
		if l, ok := ctx.Value(ctxKey{}).(Logger); ok && l != nil {
			return l
		}
	}
	return GetDefault()
}
