// Package logging builds the zap loggers used across repomirror.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level is a log granularity name
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Format is a log encoding name
type Format string

const (
	FormatConsole Format = "console"
	FormatJSON    Format = "json"
)

var levels = map[Level]zapcore.Level{
	LevelDebug: zapcore.DebugLevel,
	LevelInfo:  zapcore.InfoLevel,
	LevelWarn:  zapcore.WarnLevel,
	LevelError: zapcore.ErrorLevel,
}

// Factory builds loggers writing to Output (stderr by default)
type Factory struct {
	Output io.Writer
}

// NewFactory returns a factory writing to stderr.
func NewFactory() *Factory {
	return &Factory{Output: os.Stderr}
}

// New builds a logger for the given level and format. Names are matched
// case-insensitively.
func (f *Factory) New(level Level, format Format) (*zap.Logger, error) {
	zapLevel, ok := levels[Level(strings.ToLower(string(level)))]
	if !ok {
		return nil, fmt.Errorf("unsupported log level: %s", level)
	}

	var encoder zapcore.Encoder

	switch Format(strings.ToLower(string(format))) {
	case FormatConsole:
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(cfg)
	case FormatJSON:
		encoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	default:
		return nil, fmt.Errorf("unsupported log format: %s", format)
	}

	out := f.Output
	if out == nil {
		out = os.Stderr
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(zapcore.AddSync(out)), zap.NewAtomicLevelAt(zapLevel))

	return zap.New(core, zap.ErrorOutput(zapcore.Lock(os.Stderr))), nil
}
