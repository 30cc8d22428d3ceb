// Package logging builds the diagnostic zap logger and bridges it into the
// Wails runtime so shell messages and backend messages share one sink.
package logging

import (
	"strings"

	"github.com/wailsapp/wails/v2/pkg/logger"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a console logger at the given level ("debug", "info", "warn", "error").
// It never fails; if zap cannot be built a no-op logger is returned.
func New(level string) *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.Level = zap.NewAtomicLevelAt(ParseLevel(level))
	cfg.Sampling = nil

	l, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return l
}

// ParseLevel maps a config string onto a zap level, defaulting to info.
func ParseLevel(s string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug", "trace":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}

// wailsLogger implements logger.Logger on top of zap.
type wailsLogger struct {
	l *zap.SugaredLogger
}

// Wails adapts l for options.App.Logger.
func Wails(l *zap.Logger) logger.Logger {
	return &wailsLogger{l: OrNop(l).Named("wails").Sugar()}
}

func (w *wailsLogger) Print(message string)   { w.l.Info(message) }
func (w *wailsLogger) Trace(message string)   { w.l.Debug(message) }
func (w *wailsLogger) Debug(message string)   { w.l.Debug(message) }
func (w *wailsLogger) Info(message string)    { w.l.Info(message) }
func (w *wailsLogger) Warning(message string) { w.l.Warn(message) }
func (w *wailsLogger) Error(message string)   { w.l.Error(message) }

// Fatal logs without exiting; Wails decides how to terminate.
func (w *wailsLogger) Fatal(message string) { w.l.Error(message) }

// WailsLevel maps a config string onto the Wails log level.
func WailsLevel(s string) logger.LogLevel {
	switch ParseLevel(s) {
	case zapcore.DebugLevel:
		return logger.DEBUG
	case zapcore.WarnLevel:
		return logger.WARNING
	case zapcore.ErrorLevel:
		return logger.ERROR
	default:
		return logger.INFO
	}
}
