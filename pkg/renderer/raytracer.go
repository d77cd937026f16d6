package renderer

import (
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/integrator"
)

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	SamplesPerPixel int // Number of rays per pixel
	MaxDepth        int // Maximum ray bounce depth
}

// DefaultSamplingConfig returns sensible default values
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		SamplesPerPixel: 100,
		MaxDepth:        50,
	}
}

// Option configures a Raytracer
type Option func(*Raytracer)

// WithSamplingConfig sets samples per pixel and bounce depth
func WithSamplingConfig(config SamplingConfig) Option {
	return func(rt *Raytracer) { rt.config = config }
}

// WithWorkers sets the number of rendering goroutines; 0 uses every logical CPU
func WithWorkers(n int) Option {
	return func(rt *Raytracer) { rt.workers = n }
}

// WithSeed sets the base seed; row j is sampled with rowSeed(seed, j)
func WithSeed(seed int64) Option {
	return func(rt *Raytracer) { rt.seed = seed }
}

// WithBackground sets the color of rays that escape the scene
func WithBackground(background integrator.Background) Option {
	return func(rt *Raytracer) { rt.background = background }
}

// WithLogger sets the logger used for render progress
func WithLogger(logger *zap.Logger) Option {
	return func(rt *Raytracer) { rt.logger = logger }
}

// Raytracer renders a world through a camera into an Image
type Raytracer struct {
	world      geometry.Hittable
	camera     RayGenerator
	integrator integrator.Integrator
	background integrator.Background
	width      int
	height     int
	config     SamplingConfig
	workers    int
	seed       int64
	logger     *zap.Logger
}

// NewRaytracer creates a new raytracer. The world must not be modified while
// a render is running.
func NewRaytracer(world geometry.Hittable, camera RayGenerator, width, height int, opts ...Option) (*Raytracer, error) {
	rt := &Raytracer{
		world:      world,
		camera:     camera,
		background: integrator.DefaultBackground(),
		width:      width,
		height:     height,
		config:     DefaultSamplingConfig(),
		seed:       42,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(rt)
	}

	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("image size %dx%d must be positive", width, height)
	}
	if rt.config.SamplesPerPixel <= 0 {
		return nil, fmt.Errorf("samples per pixel %d must be positive", rt.config.SamplesPerPixel)
	}
	if rt.config.MaxDepth < 0 {
		return nil, fmt.Errorf("max depth %d is negative", rt.config.MaxDepth)
	}

	rt.integrator = integrator.NewPathTracingIntegrator(rt.config.MaxDepth, rt.background)
	return rt, nil
}

// Width returns the image width in pixels
func (rt *Raytracer) Width() int { return rt.width }

// Height returns the image height in pixels
func (rt *Raytracer) Height() int { return rt.height }

// Render samples every pixel and returns the finished image. Rows are
// distributed over a worker pool; each row draws from its own generator seeded
// with rowSeed(seed, row), so the image depends only on the seed.
func (rt *Raytracer) Render() (*Image, RenderStats) {
	start := time.Now()
	img := NewImage(rt.width, rt.height)

	pool := NewWorkerPool(rt, rt.workers, rt.height)
	rt.logger.Info("render started",
		zap.Int("width", rt.width),
		zap.Int("height", rt.height),
		zap.Int("spp", rt.config.SamplesPerPixel),
		zap.Int("max_depth", rt.config.MaxDepth),
		zap.Int("workers", pool.GetNumWorkers()),
		zap.Int64("seed", rt.seed),
	)

	pool.Start()
	for j := 0; j < rt.height; j++ {
		pool.SubmitTask(RowTask{
			Row:    j,
			Random: rand.New(rand.NewSource(rowSeed(rt.seed, j))),
			Image:  img,
		})
	}
	pool.Stop()

	stats := RenderStats{
		SamplesPerPixel: rt.config.SamplesPerPixel,
		Workers:         pool.GetNumWorkers(),
	}
	for {
		result, ok := pool.GetResult()
		if !ok {
			break
		}
		stats.Merge(result.Stats)
	}
	stats.Duration = time.Since(start)

	if stats.DiscardedSamples > 0 {
		rt.logger.Warn("discarded non-finite samples", zap.Int("count", stats.DiscardedSamples))
	}
	rt.logger.Info("render finished",
		zap.Duration("duration", stats.Duration),
		zap.Int("pixels", stats.TotalPixels),
		zap.Int("samples", stats.TotalSamples),
		zap.Int("nan_samples", stats.DiscardedSamples),
	)

	return img, stats
}

// rowSeed mixes the base seed and a row index with a splitmix64 step so that
// neighbouring base seeds never share row streams
func rowSeed(seed int64, row int) int64 {
	z := uint64(seed)*0x9E3779B97F4A7C15 + uint64(row)
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return int64(z ^ (z >> 31))
}

// RenderRow samples row j (0 at the top) into row, which must hold Width pixels
func (rt *Raytracer) RenderRow(j int, row []Pixel, random *rand.Rand) RenderStats {
	var stats RenderStats
	for i := 0; i < rt.width; i++ {
		var ps PixelStats
		for sample := 0; sample < rt.config.SamplesPerPixel; sample++ {
			// Convert pixel coordinates to normalized coordinates with jitter
			s := (float64(i) + random.Float64()) / float64(rt.width)
			t := (float64(rt.height-1-j) + random.Float64()) / float64(rt.height)

			ray := rt.camera.GetRay(s, t, random)
			ps.AddSample(rt.integrator.RayColor(ray, rt.world, random))
		}

		row[i] = FinalizeColor(ps.GetColor())
		stats.TotalPixels++
		stats.TotalSamples += ps.SampleCount
		stats.DiscardedSamples += ps.Discarded
	}
	return stats
}
