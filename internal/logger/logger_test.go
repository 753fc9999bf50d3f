package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		json     bool
		debug    bool
		encoding string
		level    zapcore.Level
	}{
		{name: "defaults", encoding: "console", level: zapcore.InfoLevel},
		{name: "json", json: true, encoding: "json", level: zapcore.InfoLevel},
		{name: "debug", debug: true, encoding: "console", level: zapcore.DebugLevel},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := Config(tt.json, tt.debug)
			if cfg.Encoding != tt.encoding {
				t.Fatalf("expected %s encoding, got %s", tt.encoding, cfg.Encoding)
			}
			if cfg.Level.Level() != tt.level {
				t.Fatalf("expected %s level, got %s", tt.level, cfg.Level.Level())
			}
			if len(cfg.OutputPaths) != 1 || cfg.OutputPaths[0] != "stderr" {
				t.Fatalf("logs must go to stderr, got %v", cfg.OutputPaths)
			}
			if cfg.EncoderConfig.MessageKey != "step" {
				t.Fatalf("unexpected message key %q", cfg.EncoderConfig.MessageKey)
			}
		})
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	logger, err := New(true, true)
	if err != nil {
		t.Fatalf("building logger: %v", err)
	}
	if !logger.Core().Enabled(zapcore.DebugLevel) {
		t.Fatalf("expected debug level to be enabled")
	}
}
