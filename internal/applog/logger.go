// Package applog is the engine's own structured logger, distinct from
// wflog.Logger: wflog carries the typed scheduler event stream a caller
// consumes, applog is where the engine's operational diagnostics (store
// I/O errors, allocator starvation, config problems) go. Built on
// log/slog with github.com/samber/slog-multi fanning out to more than
// one writer when configured.
package applog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"time"

	slogmulti "github.com/samber/slog-multi"
)

// Logger is the engine's structured logger. Every method records the
// call site of the method itself, not of the logging package, so log
// lines point at the caller regardless of how many wrapper funcs sit in
// between.
type Logger struct {
	h     slog.Handler
	debug bool
}

// Option configures a Logger built by NewLogger.
type Option func(*options)

type options struct {
	writers []io.Writer
	format  string
	debug   bool
	quiet   bool
}

// WithWriter adds w as an additional sink. May be given more than once;
// writers fan out via slog-multi.
func WithWriter(w io.Writer) Option {
	return func(o *options) { o.writers = append(o.writers, w) }
}

// WithFormat selects "text" (default) or "json" line encoding.
func WithFormat(format string) Option {
	return func(o *options) { o.format = format }
}

// WithDebug enables debug-level output.
func WithDebug() Option {
	return func(o *options) { o.debug = true }
}

// WithQuiet suppresses the default os.Stdout sink, leaving only writers
// added via WithWriter.
func WithQuiet() Option {
	return func(o *options) { o.quiet = true }
}

// NewLogger builds a Logger from the given options.
func NewLogger(opts ...Option) *Logger {
	o := &options{format: "text"}
	for _, opt := range opts {
		opt(o)
	}

	writers := o.writers
	if !o.quiet {
		writers = append([]io.Writer{os.Stdout}, writers...)
	}
	if len(writers) == 0 {
		writers = []io.Writer{io.Discard}
	}

	level := slog.LevelInfo
	if o.debug {
		level = slog.LevelDebug
	}

	handlerOpts := &slog.HandlerOptions{Level: level, AddSource: true}
	newHandler := func(w io.Writer) slog.Handler {
		if o.format == "json" {
			return slog.NewJSONHandler(w, handlerOpts)
		}
		return slog.NewTextHandler(w, handlerOpts)
	}

	handlers := make([]slog.Handler, len(writers))
	for i, w := range writers {
		handlers[i] = newHandler(w)
	}

	var h slog.Handler
	if len(handlers) == 1 {
		h = handlers[0]
	} else {
		h = slogmulti.Fanout(handlers...)
	}

	return &Logger{h: h, debug: o.debug}
}

func (l *Logger) log(level slog.Level, skip int, msg string, args ...any) {
	if !l.h.Enabled(context.Background(), level) {
		return
	}
	var pcs [1]uintptr
	runtime.Callers(skip, pcs[:])
	r := slog.NewRecord(time.Now(), level, msg, pcs[0])
	r.Add(args...)
	_ = l.h.Handle(context.Background(), r)
}

func (l *Logger) Debug(msg string, args ...any) { l.log(slog.LevelDebug, 3, msg, args...) }
func (l *Logger) Info(msg string, args ...any)  { l.log(slog.LevelInfo, 3, msg, args...) }
func (l *Logger) Warn(msg string, args ...any)  { l.log(slog.LevelWarn, 3, msg, args...) }
func (l *Logger) Error(msg string, args ...any) { l.log(slog.LevelError, 3, msg, args...) }

func (l *Logger) Debugf(format string, args ...any) { l.log(slog.LevelDebug, 3, fmt.Sprintf(format, args...)) }
func (l *Logger) Infof(format string, args ...any)  { l.log(slog.LevelInfo, 3, fmt.Sprintf(format, args...)) }
func (l *Logger) Warnf(format string, args ...any)  { l.log(slog.LevelWarn, 3, fmt.Sprintf(format, args...)) }
func (l *Logger) Errorf(format string, args ...any) { l.log(slog.LevelError, 3, fmt.Sprintf(format, args...)) }

type ctxKey struct{}

// WithLogger attaches l to ctx for retrieval by the package-level
// context-aware helpers.
func WithLogger(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

var defaultLogger = NewLogger()

func fromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(ctxKey{}).(*Logger); ok {
		return l
	}
	return defaultLogger
}

// Debug, Info, Warn, Error and their f-variants log through the Logger
// attached to ctx (or a package default if none is attached), preserving
// the caller's source location.
func Debug(ctx context.Context, msg string, args ...any) { fromContext(ctx).log(slog.LevelDebug, 3, msg, args...) }
func Info(ctx context.Context, msg string, args ...any)  { fromContext(ctx).log(slog.LevelInfo, 3, msg, args...) }
func Warn(ctx context.Context, msg string, args ...any)  { fromContext(ctx).log(slog.LevelWarn, 3, msg, args...) }
func Error(ctx context.Context, msg string, args ...any) { fromContext(ctx).log(slog.LevelError, 3, msg, args...) }

func Debugf(ctx context.Context, format string, args ...any) {
	fromContext(ctx).log(slog.LevelDebug, 3, fmt.Sprintf(format, args...))
}
func Infof(ctx context.Context, format string, args ...any) {
	fromContext(ctx).log(slog.LevelInfo, 3, fmt.Sprintf(format, args...))
}
func Warnf(ctx context.Context, format string, args ...any) {
	fromContext(ctx).log(slog.LevelWarn, 3, fmt.Sprintf(format, args...))
}
func Errorf(ctx context.Context, format string, args ...any) {
	fromContext(ctx).log(slog.LevelError, 3, fmt.Sprintf(format, args...))
}
