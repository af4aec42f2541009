// Package logger wires log/slog with a pair of tint handlers: a colored
// console handler on stderr (only when it is a TTY) and a plain-text file
// handler under the XDG state home. Fatal logs panic with a sentinel value
// recovered in main so terminal cleanup always runs before exit.
package logger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"ccswitch/internal/paths"

	"github.com/lmittmann/tint"
)

// Custom log levels, ordered Trace < Debug < Info < Notice < Warn < Error < Fatal.
const (
	LevelTrace  = slog.Level(-8)
	LevelDebug  = slog.LevelDebug
	LevelInfo   = slog.Level(-2)
	LevelNotice = slog.LevelInfo
	LevelWarn   = slog.LevelWarn
	LevelError  = slog.LevelError
	LevelFatal  = slog.Level(12)
)

// LevelVar allows dynamic changing of the console log level.
var LevelVar = new(slog.LevelVar)

// FileLevelVar allows dynamic changing of the file log level.
var FileLevelVar = new(slog.LevelVar)

var logFile *os.File

func init() {
	LevelVar.Set(LevelNotice)
	FileLevelVar.Set(LevelInfo)
}

// SetLevel adjusts the console level; the file level follows it downward
// but never rises above Info.
func SetLevel(level slog.Level) {
	LevelVar.Set(level)
	if level < LevelInfo {
		FileLevelVar.Set(level)
	} else {
		FileLevelVar.Set(LevelInfo)
	}
}

func levelText(level slog.Level) string {
	switch level {
	case LevelTrace:
		return "[TRACE ]"
	case LevelDebug:
		return "[DEBUG ]"
	case LevelInfo:
		return "[INFO  ]"
	case LevelNotice:
		return "[NOTICE]"
	case LevelWarn:
		return "[WARN  ]"
	case LevelError:
		return "[ERROR ]"
	case LevelFatal:
		return "[FATAL ]"
	}
	return "[" + level.String() + "]"
}

func replaceLevelAttr(groups []string, a slog.Attr) slog.Attr {
	if a.Key == slog.LevelKey {
		if level, ok := a.Value.Any().(slog.Level); ok {
			a.Value = slog.StringValue(levelText(level))
		}
	}
	return a
}

// NewLogger builds the fanout logger. The file handler is best-effort; a
// failure to open the log file leaves console logging intact.
func NewLogger() *slog.Logger {
	stat, _ := os.Stderr.Stat()
	isTTY := (stat.Mode() & os.ModeCharDevice) != 0

	consoleHandler := tint.NewHandler(os.Stderr, &tint.Options{
		Level:       LevelVar,
		TimeFormat:  "2006-01-02 15:04:05",
		NoColor:     !isTTY || os.Getenv("NO_COLOR") != "",
		ReplaceAttr: replaceLevelAttr,
	})

	handlers := []slog.Handler{consoleHandler}

	logPath := paths.LogFile()
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err == nil {
		if f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
			logFile = f
			handlers = append(handlers, tint.NewHandler(f, &tint.Options{
				Level:       FileLevelVar,
				TimeFormat:  "2006-01-02 15:04:05",
				NoColor:     true,
				ReplaceAttr: replaceLevelAttr,
			}))
		}
	}

	return slog.New(&FanoutHandler{handlers: handlers})
}

// Cleanup closes the log file, if one was opened.
func Cleanup() {
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
}

// FanoutHandler broadcasts records to multiple handlers.
type FanoutHandler struct {
	handlers []slog.Handler
}

func (h *FanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *FanoutHandler) Handle(ctx context.Context, r slog.Record) error {
	var firstErr error
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, r.Level) {
			if err := handler.Handle(ctx, r); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (h *FanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newHandlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		newHandlers[i] = handler.WithAttrs(attrs)
	}
	return &FanoutHandler{handlers: newHandlers}
}

func (h *FanoutHandler) WithGroup(name string) slog.Handler {
	newHandlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		newHandlers[i] = handler.WithGroup(name)
	}
	return &FanoutHandler{handlers: newHandlers}
}

func log(ctx context.Context, level slog.Level, msg string, args ...any) {
	h := slog.Default().Handler()
	if !h.Enabled(ctx, level) {
		return
	}
	if len(args) > 0 && strings.Contains(msg, "%") {
		msg = fmt.Sprintf(msg, args...)
		args = nil
	}
	r := slog.NewRecord(time.Now(), level, msg, 0)
	r.Add(args...)
	_ = h.Handle(ctx, r)
}

func Trace(ctx context.Context, msg string, args ...any)  { log(ctx, LevelTrace, msg, args...) }
func Debug(ctx context.Context, msg string, args ...any)  { log(ctx, LevelDebug, msg, args...) }
func Info(ctx context.Context, msg string, args ...any)   { log(ctx, LevelInfo, msg, args...) }
func Notice(ctx context.Context, msg string, args ...any) { log(ctx, LevelNotice, msg, args...) }
func Warn(ctx context.Context, msg string, args ...any)   { log(ctx, LevelWarn, msg, args...) }
func Error(ctx context.Context, msg string, args ...any)  { log(ctx, LevelError, msg, args...) }

// FatalError is the sentinel panic payload used by Fatal so the main run
// loop can recover, perform cleanup, and exit nonzero.
type FatalError struct{}

// Fatal logs a message with a stack trace at Fatal level and unwinds via
// panic(FatalError{}).
func Fatal(ctx context.Context, msg string, args ...any) {
	FatalWithStackSkip(ctx, 2, msg, args...)
}

// FatalWithStackSkip is Fatal with explicit control over how many stack
// frames to drop (used by recovery wrappers so traces point at the panic
// site, not the wrapper).
func FatalWithStackSkip(ctx context.Context, skip int, msg string, args ...any) {
	if len(args) > 0 && strings.Contains(msg, "%") {
		msg = fmt.Sprintf(msg, args...)
	}

	pc := make([]uintptr, 32)
	n := runtime.Callers(skip, pc)
	frames := runtime.CallersFrames(pc[:n])

	var trace []string
	for {
		frame, more := frames.Next()
		trace = append(trace, fmt.Sprintf("  %s\n    %s:%d", frame.Function, frame.File, frame.Line))
		if !more {
			break
		}
	}

	log(ctx, LevelFatal, "%s\n%s", msg, strings.Join(trace, "\n"))
	panic(FatalError{})
}

// FatalNoTrace logs at Fatal level without a stack trace and unwinds.
func FatalNoTrace(ctx context.Context, msg string, args ...any) {
	log(ctx, LevelFatal, msg, args...)
	panic(FatalError{})
}
