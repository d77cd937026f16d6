// Package config handles renderer configuration loading and management.
package config

import "github.com/df07/go-pathtracer/pkg/logger"

// Config holds all renderer settings.
type Config struct {
	Render  RenderConfig  `yaml:"render"`
	Scene   SceneConfig   `yaml:"scene"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
}

// RenderConfig holds image size and sampling settings. Zero samples or depth
// keep the scene's own sampling config.
type RenderConfig struct {
	Width           int   `yaml:"width"`
	SamplesPerPixel int   `yaml:"samples_per_pixel"`
	MaxDepth        int   `yaml:"max_depth"`
	Workers         int   `yaml:"workers"` // 0 uses every logical CPU
	Seed            int64 `yaml:"seed"`
	UseBVH          bool  `yaml:"use_bvh"`
}

// SceneConfig selects the scene to render.
type SceneConfig struct {
	Name        string  `yaml:"name"`         // Built-in scene name or path to a .yaml description
	AspectRatio float64 `yaml:"aspect_ratio"` // 0 keeps the scene camera's aspect ratio
}

// OutputConfig holds where and how the image is written.
type OutputConfig struct {
	Path   string `yaml:"path"`   // "-" writes to stdout
	Format string `yaml:"format"` // ppm, png or bmp; empty picks from the path extension
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	LogFile    string `yaml:"log_file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	fileDefaults := logger.DefaultFileOutput("")
	return &Config{
		Render: RenderConfig{
			Width:  400,
			Seed:   42,
			UseBVH: true,
		},
		Scene: SceneConfig{
			Name: "one-weekend",
		},
		Output: OutputConfig{
			Path: "output/image.ppm",
		},
		Logging: LoggingConfig{
			Level:      "info",
			MaxSizeMB:  fileDefaults.MaxSizeMB,
			MaxBackups: fileDefaults.MaxBackups,
			MaxAgeDays: fileDefaults.MaxAgeDays,
			Compress:   fileDefaults.Compress,
		},
	}
}

// Options converts the logging settings for logger.Setup. Console output is
// always on.
func (l LoggingConfig) Options() logger.Options {
	return logger.Options{
		Level:   l.Level,
		Console: true,
		File: logger.FileOutput{
			Path:       l.LogFile,
			MaxSizeMB:  l.MaxSizeMB,
			MaxBackups: l.MaxBackups,
			MaxAgeDays: l.MaxAgeDays,
			Compress:   l.Compress,
		},
	}
}
