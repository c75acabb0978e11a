package thicket

import (
	"errors"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Sentinel errors returned (wrapped) at API boundaries.
var (
	// ErrShaderSource reports a missing or empty shader source.
	ErrShaderSource = errors.New("thicket: shader source unavailable")
	// ErrUnknownAsset reports an asset id with no registered path.
	ErrUnknownAsset = errors.New("thicket: unknown asset id")
	// ErrNoDevice reports an operation that needs a Device but has none.
	ErrNoDevice = errors.New("thicket: no device")
)

var (
	logLevel = zap.NewAtomicLevelAt(zap.WarnLevel)
	logger   = newLogger(logLevel)
)

// Logger returns the package logger. Never nil.
func Logger() *zap.Logger {
	return logger
}

// SetLogger replaces the package logger. A nil logger discards everything.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
}

// SetLogLevel changes the level of the default logger. It has no effect on a
// logger installed with SetLogger.
func SetLogLevel(level string) {
	logLevel.SetLevel(parseLevel(level))
}

func newLogger(level zap.AtomicLevel) *zap.Logger {
	enc := zap.NewDevelopmentEncoderConfig()
	enc.EncodeLevel = zapcore.CapitalLevelEncoder
	config := zap.Config{
		Level:            level,
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    enc,
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
		DisableCaller:    true,
	}
	l, err := config.Build()
	if err != nil {
		return zap.NewNop()
	}
	return l.Named("thicket")
}

// parseLevel maps a config level name to a zap level. Unknown names map to
// warn.
func parseLevel(s string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zap.DebugLevel
	case "info":
		return zap.InfoLevel
	case "error":
		return zap.ErrorLevel
	default:
		return zap.WarnLevel
	}
}
