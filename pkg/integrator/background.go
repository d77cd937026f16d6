package integrator

import "github.com/df07/go-pathtracer/pkg/core"

// Background is the radiance seen by rays that escape the scene: a vertical
// gradient from Bottom (looking straight down) to Top (looking straight up)
type Background struct {
	Top    core.Vec3
	Bottom core.Vec3
}

// DefaultBackground returns the white-to-sky-blue gradient
func DefaultBackground() Background {
	return Background{
		Top:    core.NewVec3(0.5, 0.7, 1.0),
		Bottom: core.NewVec3(1.0, 1.0, 1.0),
	}
}

// Color returns the background radiance for a direction
func (b Background) Color(direction core.Vec3) core.Vec3 {
	unitDirection := direction.Normalize()

	// Map Y from [-1,1] to [0,1]
	t := 0.5 * (unitDirection.Y + 1.0)

	// Linear interpolation: (1-t)*bottom + t*top
	return b.Bottom.Multiply(1.0 - t).Add(b.Top.Multiply(t))
}
