package thicket

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zap.DebugLevel,
		" INFO ":  zap.InfoLevel,
		"error":   zap.ErrorLevel,
		"warn":    zap.WarnLevel,
		"verbose": zap.WarnLevel,
		"":        zap.WarnLevel,
	}
	for in, want := range tests {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestSetLogLevel(t *testing.T) {
	defer SetLogLevel("warn")
	SetLogLevel("debug")
	if logLevel.Level() != zap.DebugLevel {
		t.Errorf("level = %v, want debug", logLevel.Level())
	}
}

func TestSetLoggerNil(t *testing.T) {
	prev := Logger()
	defer SetLogger(prev)
	SetLogger(nil)
	if Logger() == nil {
		t.Fatal("Logger() must never be nil")
	}
	Logger().Error("discarded")
}

func TestLoadFailureIsLogged(t *testing.T) {
	logs := observeLogs(t)
	c := NewTexture2DComponent(newFakeDevice(), "does/not/exist.png")
	if c.Valid() {
		t.Fatal("component should be invalid")
	}
	if logs.FilterMessage("texture component: load failed").Len() != 1 {
		t.Errorf("logs = %v", logs.All())
	}
}
