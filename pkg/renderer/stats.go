package renderer

import (
	"time"

	"github.com/df07/go-pathtracer/pkg/core"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels      int           // Total number of pixels rendered
	TotalSamples     int           // Samples accumulated into pixels
	DiscardedSamples int           // NaN or infinite samples that were dropped
	SamplesPerPixel  int           // Samples requested per pixel
	Workers          int           // Number of workers that rendered rows
	Duration         time.Duration // Wall time of the render
}

// Merge adds the pixel and sample counters of other into s
func (s *RenderStats) Merge(other RenderStats) {
	s.TotalPixels += other.TotalPixels
	s.TotalSamples += other.TotalSamples
	s.DiscardedSamples += other.DiscardedSamples
}

// AverageSamples returns the number of accepted samples per pixel
func (s RenderStats) AverageSamples() float64 {
	if s.TotalPixels == 0 {
		return 0
	}
	return float64(s.TotalSamples) / float64(s.TotalPixels)
}

// PixelStats accumulates the samples of a single pixel
type PixelStats struct {
	ColorAccum  core.Vec3 // RGB accumulator for final result
	SampleCount int       // Number of samples accepted
	Discarded   int       // Number of non-finite samples dropped
}

// AddSample adds a new color sample to the pixel statistics. Samples with a
// NaN or infinite component are dropped and counted instead.
func (ps *PixelStats) AddSample(color core.Vec3) bool {
	if !color.IsFinite() {
		ps.Discarded++
		return false
	}
	ps.ColorAccum = ps.ColorAccum.Add(color)
	ps.SampleCount++
	return true
}

// GetColor returns the current average color for this pixel
func (ps *PixelStats) GetColor() core.Vec3 {
	if ps.SampleCount == 0 {
		return core.Vec3{X: 0, Y: 0, Z: 0}
	}
	return ps.ColorAccum.Multiply(1.0 / float64(ps.SampleCount))
}
