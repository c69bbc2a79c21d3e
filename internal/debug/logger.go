// Package debug provides debug logging functionality using log/slog
package debug

import (
	"io"
	"log/slog"
	"os"
	"sync"
)

var (
	// logger is the global debug logger instance
	logger *slog.Logger
	// enabled indicates if debug logging is enabled
	enabled bool
	// mu protects the logger and enabled flag
	mu sync.RWMutex
)

func init() {
	Init(false)
}

// Options controls where and how logs are written.
type Options struct {
	// Enable turns on debug level output. When false only errors are written.
	Enable bool
	// Writer receives log lines. Defaults to os.Stderr.
	Writer io.Writer
	// JSON selects the JSON handler instead of the text handler.
	JSON bool
}

// Init initializes the debug logger
// If enable is true, debug logs will be written to os.Stderr
// If enable is false, only errors are written
func Init(enable bool) {
	Configure(Options{Enable: enable})
}

// Configure replaces the global logger.
func Configure(opts Options) {
	mu.Lock()
	defer mu.Unlock()

	enabled = opts.Enable

	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}

	level := slog.LevelError
	if opts.Enable {
		level = slog.LevelDebug
	}
	handlerOpts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if opts.JSON {
		handler = slog.NewJSONHandler(w, handlerOpts)
	} else {
		handler = slog.NewTextHandler(w, handlerOpts)
	}
	logger = slog.New(handler)
}

// Enabled returns whether debug logging is enabled
func Enabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled
}

// Debug logs a debug message
func Debug(msg string, args ...any) {
	Logger().Debug(msg, args...)
}

// Info logs an info message
func Info(msg string, args ...any) {
	Logger().Info(msg, args...)
}

// Warn logs a warning message
func Warn(msg string, args ...any) {
	Logger().Warn(msg, args...)
}

// Error logs an error message
func Error(msg string, args ...any) {
	Logger().Error(msg, args...)
}

// With returns a logger with the given attributes
func With(args ...any) *slog.Logger {
	return Logger().With(args...)
}

// Logger returns the underlying slog.Logger instance
func Logger() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}
