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
		{name: "console info", encoding: "console", level: zapcore.InfoLevel},
		{name: "json info", json: true, encoding: "json", level: zapcore.InfoLevel},
		{name: "console debug", debug: true, encoding: "console", level: zapcore.DebugLevel},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := Config(tt.json, tt.debug)
			if cfg.Encoding != tt.encoding {
				t.Fatalf("expected encoding %s, got %s", tt.encoding, cfg.Encoding)
			}
			if cfg.Level.Level() != tt.level {
				t.Fatalf("expected level %s, got %s", tt.level, cfg.Level.Level())
			}
			if cfg.EncoderConfig.MessageKey != "step" {
				t.Fatalf("unexpected message key %q", cfg.EncoderConfig.MessageKey)
			}
			if len(cfg.OutputPaths) != 1 || cfg.OutputPaths[0] != "stderr" {
				t.Fatalf("logs must go to stderr, got %v", cfg.OutputPaths)
			}
			if cfg.DisableStacktrace == tt.debug {
				t.Fatalf("stacktraces should only be enabled in debug mode")
			}
		})
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	log, err := New(true, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if log.Core().Enabled(zapcore.DebugLevel) {
		t.Fatalf("debug must be disabled by default")
	}
}
