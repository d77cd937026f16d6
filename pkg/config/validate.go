package config

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"

	"github.com/df07/go-pathtracer/pkg/logger"
	"github.com/df07/go-pathtracer/pkg/output"
)

// ErrInvalidConfig is wrapped by every validation error.
var ErrInvalidConfig = errors.New("invalid config")

// Validate reports every problem with the config at once.
func (c *Config) Validate() error {
	var errs error
	add := func(format string, args ...any) {
		errs = multierr.Append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}

	if c.Render.Width <= 0 {
		add("render.width %d must be positive", c.Render.Width)
	}
	if c.Render.SamplesPerPixel < 0 {
		add("render.samples_per_pixel %d must not be negative", c.Render.SamplesPerPixel)
	}
	if c.Render.MaxDepth < 0 {
		add("render.max_depth %d must not be negative", c.Render.MaxDepth)
	}
	if c.Render.Workers < 0 {
		add("render.workers %d must not be negative", c.Render.Workers)
	}
	if c.Scene.Name == "" {
		add("scene.name is required")
	}
	if c.Scene.AspectRatio < 0 {
		add("scene.aspect_ratio %g must not be negative", c.Scene.AspectRatio)
	}

	if c.Output.Path == "" {
		add("output.path is required")
	}
	if _, err := c.OutputFormat(); err != nil {
		add("output: %v", err)
	}

	if !logger.ValidLevel(c.Logging.Level) {
		add("logging.level %q must be debug, info, warn or error", c.Logging.Level)
	}

	return errs
}

// OutputFormat resolves the image format: the configured format, else the
// output path extension, else PPM for stdout.
func (c *Config) OutputFormat() (output.Format, error) {
	if c.Output.Format != "" {
		return output.ParseFormat(c.Output.Format)
	}
	if c.Output.Path == "-" {
		return output.FormatPPM, nil
	}
	return output.FormatFromPath(c.Output.Path)
}
