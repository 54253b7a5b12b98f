// Package log is the diagnostic logger. Everything it writes goes to stderr by
// default because stdout carries the tool protocol.
package log

import (
	"io"
	stdlog "log"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// Logger is the subset of zap's SugaredLogger used across the module.
type Logger interface {
	Debug(args ...any)
	Debugf(format string, args ...any)
	Info(args ...any)
	Infof(format string, args ...any)
	Warn(args ...any)
	Warnf(format string, args ...any)
	Error(args ...any)
	Errorf(format string, args ...any)
	// Debugw logs a message with structured key/value pairs.
	Debugw(msg string, keysAndValues ...any)
	Infow(msg string, keysAndValues ...any)
	Warnw(msg string, keysAndValues ...any)
	Errorw(msg string, keysAndValues ...any)
}

var encoderConfig = zapcore.EncoderConfig{
	TimeKey:        "ts",
	LevelKey:       "lvl",
	NameKey:        "name",
	CallerKey:      "caller",
	MessageKey:     "message",
	StacktraceKey:  "stacktrace",
	LineEnding:     zapcore.DefaultLineEnding,
	EncodeLevel:    zapcore.CapitalLevelEncoder,
	EncodeTime:     zapcore.RFC3339TimeEncoder,
	EncodeDuration: zapcore.MillisDurationEncoder,
	EncodeCaller:   zapcore.ShortCallerEncoder,
}

var zapLevel = zap.NewAtomicLevelAt(zapcore.InfoLevel)

// Default writes console-encoded entries to stderr.
var Default Logger = newSugared(os.Stderr, zapLevel)

// Nop discards everything.
var Nop Logger = zap.NewNop().Sugar()

// SetLevel changes the level of Default. Unknown levels fall back to info.
func SetLevel(level string) {
	zapLevel.SetLevel(parseLevel(level))
}

// New builds an independent logger writing to w.
func New(w io.Writer, level string) Logger {
	return newSugared(w, zap.NewAtomicLevelAt(parseLevel(level)))
}

// StdLogger adapts Default for libraries that want a *log.Logger. Entries are
// written at error level.
func StdLogger() *stdlog.Logger {
	if sugared, ok := Default.(*zap.SugaredLogger); ok {
		if std, err := zap.NewStdLogAt(sugared.Desugar(), zapcore.ErrorLevel); err == nil {
			return std
		}
	}
	return stdlog.New(os.Stderr, "", stdlog.LstdFlags)
}

func newSugared(w io.Writer, level zap.AtomicLevel) *zap.SugaredLogger {
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(w),
		level,
	)
	return zap.New(core, zap.AddCaller()).Sugar()
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
