package integrator

import (
	"math/rand"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
)

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// RayColor estimates the radiance arriving along ray from world.
	// random must not be shared between goroutines.
	RayColor(ray core.Ray, world geometry.Hittable, random *rand.Rand) core.Vec3
}
