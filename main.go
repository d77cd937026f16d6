package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/df07/go-pathtracer/pkg/config"
	"github.com/df07/go-pathtracer/pkg/logger"
	"github.com/df07/go-pathtracer/pkg/output"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
)

func main() {
	// Console logging until the config says otherwise
	if err := logger.Setup(logger.Options{Level: "info", Console: true}); err != nil {
		fmt.Fprintf(os.Stderr, "pathtracer: console logging unavailable: %v\n", err)
	}

	err := run(os.Args[1:], os.Stdout)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		logger.Log.Error("render failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	logger.Sync()
}

// run parses args, renders the configured scene and writes the image
func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("pathtracer", flag.ContinueOnError)
	flags := config.BindFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	if flags.ListScenes() {
		for _, info := range scene.ListBuiltinScenes() {
			fmt.Fprintf(stdout, "%-14s %s\n", info.Name, info.Description)
		}
		return nil
	}

	cfg, err := config.Load(flags.ConfigPath())
	if err != nil {
		return err
	}
	flags.Apply(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	if path := flags.SaveConfigPath(); path != "" {
		if err := cfg.SaveTo(path); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		logger.Log.Info("saved config", zap.String("path", path))
		return nil
	}

	if err := logger.Setup(cfg.Logging.Options()); err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	log := logger.Log
	renderer.LogHostInfo(log)

	selectedScene, err := scene.Load(cfg.Scene.Name, cfg.Render.Seed)
	if err != nil {
		return err
	}
	log.Info("loaded scene",
		zap.String("scene", selectedScene.Name),
		zap.Int("shapes", len(selectedScene.Shapes)),
		zap.Int("primitives", selectedScene.GetPrimitiveCount()))

	img, err := renderScene(selectedScene, cfg, log)
	if err != nil {
		return err
	}

	format, err := cfg.OutputFormat()
	if err != nil {
		return err
	}
	if cfg.Output.Path == "-" {
		return output.Encode(stdout, img, format)
	}
	if err := output.SaveImage(cfg.Output.Path, img, format); err != nil {
		return err
	}
	log.Info("saved image", zap.String("path", cfg.Output.Path), zap.String("format", string(format)))
	return nil
}

// renderScene builds the camera and world for s and renders them with the
// render settings of cfg
func renderScene(s *scene.Scene, cfg *config.Config, log *zap.Logger) (*renderer.Image, error) {
	cameraConfig := s.CameraConfig
	if cfg.Scene.AspectRatio > 0 {
		cameraConfig.AspectRatio = cfg.Scene.AspectRatio
	}
	camera, err := renderer.NewCamera(cameraConfig)
	if err != nil {
		return nil, fmt.Errorf("scene %q: %w", s.Name, err)
	}

	world, err := s.BuildWorld(cfg.Render.UseBVH, log)
	if err != nil {
		return nil, err
	}

	sampling := s.SamplingConfig
	if cfg.Render.SamplesPerPixel > 0 {
		sampling.SamplesPerPixel = cfg.Render.SamplesPerPixel
	}
	if cfg.Render.MaxDepth > 0 {
		sampling.MaxDepth = cfg.Render.MaxDepth
	}

	width := cfg.Render.Width
	height := imageHeight(width, cameraConfig.AspectRatio)

	raytracer, err := renderer.NewRaytracer(world, camera, width, height,
		renderer.WithSamplingConfig(sampling),
		renderer.WithWorkers(cfg.Render.Workers),
		renderer.WithSeed(cfg.Render.Seed),
		renderer.WithBackground(s.Background),
		renderer.WithLogger(log),
	)
	if err != nil {
		return nil, err
	}

	img, _ := raytracer.Render()
	return img, nil
}

// imageHeight derives the height from the width and aspect ratio, at least 1
func imageHeight(width int, aspectRatio float64) int {
	return max(1, int(float64(width)/aspectRatio))
}
