// Package logger configures the zap logger shared by the renderer and the CLI.
package logger

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// ErrInvalidOptions is wrapped by every error Setup and New return for bad options
var ErrInvalidOptions = errors.New("invalid logging options")

// Log is the process-wide logger. It discards entries until Setup succeeds.
var Log = zap.NewNop()

// Sugar wraps Log for printf-style calls.
var Sugar = Log.Sugar()

// Options selects the level and sinks of a logger
type Options struct {
	Level   string     // debug, info, warn or error
	Console bool       // Colored entries on stderr, leaving stdout for image data
	File    FileOutput // Rotating log file, disabled when Path is empty
}

// FileOutput describes a log file rotated by lumberjack
type FileOutput struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// DefaultFileOutput keeps three compressed 50MB files for a week
func DefaultFileOutput(path string) FileOutput {
	return FileOutput{
		Path:       path,
		MaxSizeMB:  50,
		MaxBackups: 3,
		MaxAgeDays: 7,
		Compress:   true,
	}
}

// Setup builds a logger from opts and installs it as Log and Sugar. On error
// the current logger stays installed.
func Setup(opts Options) error {
	l, err := New(opts)
	if err != nil {
		return err
	}
	Log = l
	Sugar = l.Sugar()
	return nil
}

// New builds a logger from opts without touching Log or Sugar. With neither
// sink enabled the logger drops everything.
func New(opts Options) (*zap.Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	var cores []zapcore.Core
	if opts.Console {
		encoder := zapcore.NewConsoleEncoder(encoderConfig(
			zapcore.TimeEncoderOfLayout("15:04:05"), zapcore.CapitalColorLevelEncoder))
		cores = append(cores, zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), level))
	}
	if opts.File.Path != "" {
		sink, err := opts.File.writer()
		if err != nil {
			return nil, err
		}
		encoder := zapcore.NewConsoleEncoder(encoderConfig(
			zapcore.ISO8601TimeEncoder, zapcore.CapitalLevelEncoder))
		cores = append(cores, zapcore.NewCore(encoder, sink, level))
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller()), nil
}

func (f FileOutput) writer() (zapcore.WriteSyncer, error) {
	if f.MaxSizeMB < 0 || f.MaxBackups < 0 || f.MaxAgeDays < 0 {
		return nil, fmt.Errorf("log file %s: rotation limits must not be negative: %w", f.Path, ErrInvalidOptions)
	}
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   f.Path,
		MaxSize:    f.MaxSizeMB,
		MaxBackups: f.MaxBackups,
		MaxAge:     f.MaxAgeDays,
		Compress:   f.Compress,
		LocalTime:  true, // rotated names carry local time
	}), nil
}

func encoderConfig(timeEncoder zapcore.TimeEncoder, levelEncoder zapcore.LevelEncoder) zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:          "time",
		LevelKey:         "level",
		MessageKey:       "msg",
		CallerKey:        "caller",
		EncodeTime:       timeEncoder,
		EncodeLevel:      levelEncoder,
		EncodeCaller:     zapcore.ShortCallerEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: " ",
	}
}

// ParseLevel maps one of debug, info, warn or error to its zap level
func ParseLevel(name string) (zapcore.Level, error) {
	switch name {
	case "debug":
		return zapcore.DebugLevel, nil
	case "info":
		return zapcore.InfoLevel, nil
	case "warn":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	}
	return zapcore.InfoLevel, fmt.Errorf("unknown log level %q: %w", name, ErrInvalidOptions)
}

// ValidLevel reports whether ParseLevel accepts name
func ValidLevel(name string) bool {
	_, err := ParseLevel(name)
	return err == nil
}

// Sync flushes buffered entries. Errors from syncing a terminal are ignored.
func Sync() {
	_ = Log.Sync()
}
