package config_test

import (
	"testing"

	"github.com/reillypo/nps-explorer/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger_Level(t *testing.T) {
	logger, err := config.NewLogger("error", "json")
	if err != nil {
		t.Fatalf("should not have any error, got %v", err)
	}
	if logger.Core().Enabled(zapcore.WarnLevel) {
		t.Error("warn must be disabled at error level")
	}
	if !logger.Core().Enabled(zapcore.ErrorLevel) {
		t.Error("error must be enabled at error level")
	}
}

func TestNewLogger_InvalidLevel(t *testing.T) {
	if _, err := config.NewLogger("loud", "console"); err == nil {
		t.Error("expected an error for an unknown level")
	}
}

func TestInitLogger_ReplacesGlobal(t *testing.T) {
	previous := zap.L()
	t.Cleanup(func() { zap.ReplaceGlobals(previous) })

	cfg, err := config.WithDefault().WithLogLevel("debug").Build()
	if err != nil {
		t.Fatalf("should not have any error, got %v", err)
	}
	if err := config.InitLogger(cfg); err != nil {
		t.Fatalf("should not have any error, got %v", err)
	}
	if !zap.L().Core().Enabled(zapcore.DebugLevel) {
		t.Error("global logger should be at debug level")
	}
}
