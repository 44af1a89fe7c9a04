// Package logger provides process-wide logging for vetdesk on top of zap.
//
// Verbose mode, enabled via the --verbose flag, lowers the level to debug so
// the booking and import pipelines explain what they are doing. Without it
// only warnings and errors are written. Components that run for a long time
// take a named logger from Named and log structured key/value pairs.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
	jsonFmt bool

	level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	base  = build()
)

// syncWriter forwards to the current output so loggers created before
// SetOutput follow the change.
type syncWriter struct{}

func (syncWriter) Write(p []byte) (int, error) {
	mu.Lock()
	defer mu.Unlock()
	return output.Write(p)
}

func (syncWriter) Sync() error { return nil }

func build() *zap.Logger {
	var enc zapcore.Encoder
	if jsonFmt {
		enc = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	} else {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.TimeKey = ""
		cfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(cfg)
	}
	return zap.New(zapcore.NewCore(enc, syncWriter{}, level))
}

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
	if v {
		level.SetLevel(zapcore.DebugLevel)
	} else {
		level.SetLevel(zapcore.WarnLevel)
	}
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// SetJSON switches between console and JSON encoding. The server uses JSON.
// Loggers obtained from Named before the call keep their encoding.
func SetJSON(v bool) {
	mu.Lock()
	jsonFmt = v
	mu.Unlock()
	l := build()
	mu.Lock()
	base = l
	mu.Unlock()
}

// L returns the process logger.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

// Named returns a sugared logger for a component.
func Named(name string) *zap.SugaredLogger {
	return L().Named(name).Sugar()
}

// With returns a sugared logger carrying the given key/value pairs.
func With(keysAndValues ...any) *zap.SugaredLogger {
	return L().Sugar().With(keysAndValues...)
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	L().Sugar().Debugf(format, args...)
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	L().Sugar().Infof(format, args...)
}

// Warn prints a warning message.
func Warn(format string, args ...any) {
	L().Sugar().Warnf(format, args...)
}

// Error prints an error message.
func Error(format string, args ...any) {
	L().Sugar().Errorf(format, args...)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

// Sync flushes buffered entries.
func Sync() error {
	return L().Sync()
}
