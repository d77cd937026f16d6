package config

import "flag"

// Flags holds command-line overrides bound to a FlagSet.
type Flags struct {
	fs *flag.FlagSet

	config     *string
	scene      *string
	width      *int
	samples    *int
	maxDepth   *int
	workers    *int
	seed       *int64
	bvh        *bool
	aspect     *float64
	output     *string
	format     *string
	logLevel   *string
	logFile    *string
	debug      *bool
	listScenes *bool
	saveConfig *string
}

// BindFlags registers the renderer flags on fs.
func BindFlags(fs *flag.FlagSet) *Flags {
	return &Flags{
		fs:         fs,
		config:     fs.String("config", "", "Path to config file (default ./"+DefaultPath+" if present)"),
		scene:      fs.String("scene", "", "Built-in scene name or path to a .yaml scene description"),
		width:      fs.Int("width", 0, "Image width in pixels"),
		samples:    fs.Int("samples", 0, "Samples per pixel (0 keeps the scene's)"),
		maxDepth:   fs.Int("max-depth", 0, "Maximum bounces per path (0 keeps the scene's)"),
		workers:    fs.Int("workers", 0, "Number of render workers (0 uses every logical CPU)"),
		seed:       fs.Int64("seed", 0, "Random seed"),
		bvh:        fs.Bool("bvh", true, "Use a BVH instead of a linear scan"),
		aspect:     fs.Float64("aspect", 0, "Override the scene's aspect ratio"),
		output:     fs.String("output", "", "Output image path, or - for stdout"),
		format:     fs.String("format", "", "Output format: ppm, png or bmp (default from extension)"),
		logLevel:   fs.String("log-level", "", "Log level: debug, info, warn or error"),
		logFile:    fs.String("log-file", "", "Also write logs to this rotating file"),
		debug:      fs.Bool("debug", false, "Enable debug logging"),
		listScenes: fs.Bool("list-scenes", false, "List built-in scenes and exit"),
		saveConfig: fs.String("save-config", "", "Write the effective config to this path and exit"),
	}
}

// ConfigPath returns the explicit config path if provided via -config.
func (f *Flags) ConfigPath() string {
	return *f.config
}

// ListScenes reports whether -list-scenes was given.
func (f *Flags) ListScenes() bool {
	return *f.listScenes
}

// SaveConfigPath returns the -save-config path, empty when not given.
func (f *Flags) SaveConfigPath() string {
	return *f.saveConfig
}

// Apply applies the flags that were set on the command line to cfg.
func (f *Flags) Apply(cfg *Config) {
	f.fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "scene":
			cfg.Scene.Name = *f.scene
		case "width":
			cfg.Render.Width = *f.width
		case "samples":
			cfg.Render.SamplesPerPixel = *f.samples
		case "max-depth":
			cfg.Render.MaxDepth = *f.maxDepth
		case "workers":
			cfg.Render.Workers = *f.workers
		case "seed":
			cfg.Render.Seed = *f.seed
		case "bvh":
			cfg.Render.UseBVH = *f.bvh
		case "aspect":
			cfg.Scene.AspectRatio = *f.aspect
		case "output":
			cfg.Output.Path = *f.output
		case "format":
			cfg.Output.Format = *f.format
		case "log-level":
			cfg.Logging.Level = *f.logLevel
		case "log-file":
			cfg.Logging.LogFile = *f.logFile
		}
	})

	if *f.debug {
		cfg.Logging.Level = "debug"
	}
}
