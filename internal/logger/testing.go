package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

// Test returns a debug-level logger that writes through tb.
func Test(tb testing.TB) *zap.SugaredLogger {
	tb.Helper()
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
	return zap.New(zapcore.NewCore(
		zapcore.NewConsoleEncoder(cfg),
		zaptest.NewTestingWriter(tb),
		zapcore.DebugLevel,
	)).Sugar()
}

// TestObserved returns a test logger and the entries it records at lvl and above.
func TestObserved(tb testing.TB, lvl zapcore.Level) (*zap.SugaredLogger, *observer.ObservedLogs) {
	tb.Helper()
	oCore, logs := observer.New(lvl)
	observe := zap.WrapCore(func(c zapcore.Core) zapcore.Core {
		return zapcore.NewTee(c, oCore)
	})
	return zaptest.NewLogger(tb, zaptest.WrapOptions(observe)).Sugar(), logs
}

// Nop returns a logger that discards everything.
func Nop() *zap.SugaredLogger {
	return zap.New(zapcore.NewNopCore()).Sugar()
}
