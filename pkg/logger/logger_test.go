package logger

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestLogRotation(t *testing.T) {
	tempDir := t.TempDir()
	logFile := filepath.Join(tempDir, "render.log")

	// 1MB is the smallest size lumberjack allows
	file := FileOutput{
		Path:       logFile,
		MaxSizeMB:  1,
		MaxBackups: 2,
		MaxAgeDays: 1,
		Compress:   false,
	}

	if err := Setup(Options{Level: "debug", File: file}); err != nil {
		t.Fatalf("failed to set up logger: %v", err)
	}
	defer Sync()

	// ~250 bytes per line, enough to pass 1MB
	longMessage := strings.Repeat("x", 200)
	for i := 0; i < 15000; i++ {
		Sugar.Infof("row %d done: %s", i, longMessage)
	}
	Sync()

	if _, err := os.Stat(logFile); os.IsNotExist(err) {
		t.Error("main log file does not exist")
	}

	files, err := os.ReadDir(tempDir)
	if err != nil {
		t.Fatalf("failed to read temp dir: %v", err)
	}

	rotated := 0
	for _, f := range files {
		name := f.Name()
		if name == "render.log" || !strings.HasPrefix(name, "render") {
			continue
		}
		rotated++
		// Rotated files are named render-YYYY-MM-DDTHH-MM-SS.SSS.log
		if !strings.Contains(name, "-20") {
			t.Errorf("rotated file %s doesn't have expected timestamp format", name)
		}
	}
	if rotated == 0 {
		t.Error("no rotated files found")
	}
}

func TestLogLevels(t *testing.T) {
	tempDir := t.TempDir()

	tests := []struct {
		level    string
		expected []string
		excluded []string
	}{
		{
			level:    "error",
			expected: []string{"ERROR"},
			excluded: []string{"WARN", "INFO", "DEBUG"},
		},
		{
			level:    "warn",
			expected: []string{"ERROR", "WARN"},
			excluded: []string{"INFO", "DEBUG"},
		},
		{
			level:    "info",
			expected: []string{"ERROR", "WARN", "INFO"},
			excluded: []string{"DEBUG"},
		},
		{
			level:    "debug",
			expected: []string{"ERROR", "WARN", "INFO", "DEBUG"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logFile := filepath.Join(tempDir, tt.level+".log")
			file := FileOutput{Path: logFile, MaxSizeMB: 10, MaxBackups: 1, MaxAgeDays: 1}

			if err := Setup(Options{Level: tt.level, File: file}); err != nil {
				t.Fatalf("failed to set up logger: %v", err)
			}

			Log.Debug("debug message")
			Log.Info("info message")
			Log.Warn("warn message")
			Log.Error("error message")
			Sync()

			content, err := os.ReadFile(logFile)
			if err != nil {
				t.Fatalf("failed to read log file: %v", err)
			}
			logContent := string(content)

			for _, exp := range tt.expected {
				if !strings.Contains(logContent, exp) {
					t.Errorf("expected %s in log output", exp)
				}
			}
			for _, exc := range tt.excluded {
				if strings.Contains(logContent, exc) {
					t.Errorf("unexpected %s in log output for level %s", exc, tt.level)
				}
			}
		})
	}
}

func TestNewLeavesGlobalsAlone(t *testing.T) {
	before := Log
	l, err := New(Options{Level: "warn"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if Log != before {
		t.Error("New replaced the global logger")
	}
	if l.Core().Enabled(zapcore.InfoLevel) {
		t.Error("expected logger without cores to drop info entries")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected zapcore.Level
		valid    bool
	}{
		{"debug", zapcore.DebugLevel, true},
		{"info", zapcore.InfoLevel, true},
		{"warn", zapcore.WarnLevel, true},
		{"error", zapcore.ErrorLevel, true},
		{"verbose", zapcore.InfoLevel, false},
		{"", zapcore.InfoLevel, false},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.input)
		if got != tt.expected {
			t.Errorf("ParseLevel(%q): expected %v, got %v", tt.input, tt.expected, got)
		}
		if (err == nil) != tt.valid {
			t.Errorf("ParseLevel(%q): expected valid=%v, got error %v", tt.input, tt.valid, err)
		}
		if err != nil && !errors.Is(err, ErrInvalidOptions) {
			t.Errorf("ParseLevel(%q): expected ErrInvalidOptions, got %v", tt.input, err)
		}
		if got := ValidLevel(tt.input); got != tt.valid {
			t.Errorf("ValidLevel(%q): expected %v, got %v", tt.input, tt.valid, got)
		}
	}
}

func TestSetup_KeepsLoggerOnError(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	tests := []struct {
		name string
		opts Options
		is   error
	}{
		{"unknown level", Options{Level: "verbose"}, ErrInvalidOptions},
		{"empty level", Options{}, ErrInvalidOptions},
		{"negative size", Options{Level: "info", File: FileOutput{Path: filepath.Join(t.TempDir(), "a.log"), MaxSizeMB: -1}}, ErrInvalidOptions},
		{"directory blocked by file", Options{Level: "info", File: FileOutput{Path: filepath.Join(blocker, "a.log")}}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := Log
			err := Setup(tt.opts)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.is != nil && !errors.Is(err, tt.is) {
				t.Errorf("expected %v, got %v", tt.is, err)
			}
			if Log != before {
				t.Error("Setup replaced the logger despite failing")
			}
		})
	}
}

func TestSetup_CreatesLogDirectory(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "logs", "nested", "render.log")
	if err := Setup(Options{Level: "info", File: DefaultFileOutput(logFile)}); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	Log.Info("render started")
	Sync()

	if _, err := os.Stat(logFile); err != nil {
		t.Errorf("expected log file to exist: %v", err)
	}
}

func TestDefaultFileOutput(t *testing.T) {
	cfg := DefaultFileOutput("/tmp/render.log")

	if cfg.Path != "/tmp/render.log" {
		t.Errorf("expected path /tmp/render.log, got %s", cfg.Path)
	}
	if cfg.MaxSizeMB != 50 {
		t.Errorf("expected MaxSizeMB 50, got %d", cfg.MaxSizeMB)
	}
	if cfg.MaxBackups != 3 {
		t.Errorf("expected MaxBackups 3, got %d", cfg.MaxBackups)
	}
	if cfg.MaxAgeDays != 7 {
		t.Errorf("expected MaxAgeDays 7, got %d", cfg.MaxAgeDays)
	}
	if !cfg.Compress {
		t.Error("expected Compress to be true")
	}
}
