package integrator

import (
	"math"
	"math/rand"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
)

// ShadowEpsilon is the minimum ray parameter accepted for a hit. It keeps a
// scattered ray from re-intersecting the surface it left.
const ShadowEpsilon = 0.001

// PathTracingIntegrator implements unidirectional path tracing with a fixed bounce limit
type PathTracingIntegrator struct {
	maxDepth   int
	background Background
}

// NewPathTracingIntegrator creates a new path tracing integrator
func NewPathTracingIntegrator(maxDepth int, background Background) *PathTracingIntegrator {
	return &PathTracingIntegrator{
		maxDepth:   maxDepth,
		background: background,
	}
}

// MaxDepth returns the bounce limit
func (pt *PathTracingIntegrator) MaxDepth() int {
	return pt.maxDepth
}

// RayColor computes the color for a single ray. Each bounce multiplies the
// material attenuation into the path throughput; the path ends black when it
// is absorbed or runs out of bounces, and picks up the background when it
// escapes the scene.
func (pt *PathTracingIntegrator) RayColor(ray core.Ray, world geometry.Hittable, random *rand.Rand) core.Vec3 {
	throughput := core.NewVec3(1, 1, 1)
	var hit material.HitRecord

	for depth := pt.maxDepth; depth > 0; depth-- {
		if !world.Hit(ray, ShadowEpsilon, math.Inf(1), &hit) {
			return throughput.MultiplyVec(pt.background.Color(ray.Direction))
		}

		scatter, didScatter := hit.Material.Scatter(ray, &hit, random)
		if !didScatter {
			return core.Vec3{}
		}

		throughput = throughput.MultiplyVec(scatter.Attenuation)
		ray = scatter.Scattered
	}

	// If we've exceeded the ray bounce limit, no more light is gathered
	return core.Vec3{}
}
