// Package logger builds the zap logger shared by all commands and the field
// helpers used to keep log entries consistent.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const messageKey = "step"

// Config returns the zap configuration used by New. json switches the
// encoding from console to json; debug lowers the level to debug.
func Config(json bool, debug bool) zap.Config {
	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}

	encoding := "console"
	encodeLevel := zapcore.CapitalColorLevelEncoder
	if json {
		encoding = "json"
		encodeLevel = zapcore.LowercaseLevelEncoder
	}

	return zap.Config{
		Encoding:          encoding,
		Level:             zap.NewAtomicLevelAt(level),
		DisableStacktrace: !debug,
		OutputPaths:       []string{"stderr"},
		ErrorOutputPaths:  []string{"stderr"},
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey: messageKey,

			LevelKey:    "level",
			EncodeLevel: encodeLevel,

			TimeKey:    "time",
			EncodeTime: zapcore.RFC3339TimeEncoder,

			CallerKey:    "caller",
			EncodeCaller: zapcore.ShortCallerEncoder,

			EncodeDuration: zapcore.StringDurationEncoder,
		},
	}
}

// New builds the application logger. Output always goes to stderr so that
// stdout stays free for command results.
func New(json bool, debug bool) (*zap.Logger, error) {
	return Config(json, debug).Build()
}
