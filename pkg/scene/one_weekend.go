package scene

import (
	"math/rand"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/renderer"
)

// NewOneWeekendScene creates the classic cover scene: a field of small random
// spheres around three large ones. The layout is drawn from random, so the
// same seed always yields the same scene.
func NewOneWeekendScene(random *rand.Rand) *Scene {
	cameraConfig := renderer.CameraConfig{
		Center:        core.NewVec3(13, 2, 3),
		LookAt:        core.NewVec3(0, 0, 0),
		Up:            core.NewVec3(0, 1, 0),
		VFov:          20.0,
		AspectRatio:   16.0 / 9.0,
		Aperture:      0.1,
		FocusDistance: 10.0,
	}

	s := newScene("one-weekend", cameraConfig)
	s.SamplingConfig = renderer.SamplingConfig{
		SamplesPerPixel: 10,
		MaxDepth:        50,
	}

	// Ground
	ground := material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))
	s.Add(geometry.SphereShape(geometry.NewSphere(core.NewVec3(0, -1000, 0), 1000, ground)))

	addRandomSpheres(s, random)

	// Three feature spheres: glass, matte and polished metal
	s.Add(
		geometry.SphereShape(geometry.NewSphere(core.NewVec3(0, 1, 0), 1.0, material.NewDielectric(1.5))),
		geometry.SphereShape(geometry.NewSphere(core.NewVec3(-4, 1, 0), 1.0,
			material.NewLambertian(core.NewVec3(0.4, 0.2, 0.1)))),
		geometry.SphereShape(geometry.NewSphere(core.NewVec3(4, 1, 0), 1.0,
			material.NewMetal(core.NewVec3(0.7, 0.6, 0.5), 0.0))),
	)

	return s
}

// addRandomSpheres scatters small spheres on a 22x22 grid, keeping clear of the
// metal feature sphere
func addRandomSpheres(s *Scene, random *rand.Rand) {
	const radius = 0.2
	clearance := core.NewVec3(4, radius, 0)

	for a := -11; a < 11; a++ {
		for b := -11; b < 11; b++ {
			chooseMat := random.Float64()
			center := core.NewVec3(
				float64(a)+0.9*random.Float64(),
				radius,
				float64(b)+0.9*random.Float64(),
			)
			if center.Subtract(clearance).Length() <= 0.9 {
				continue
			}

			var mat material.Material
			switch {
			case chooseMat < 0.8:
				// Diffuse
				albedo := core.RandomVec3(random, 0, 1).MultiplyVec(core.RandomVec3(random, 0, 1))
				mat = material.NewLambertian(albedo)
			case chooseMat < 0.95:
				// Metal
				albedo := core.RandomVec3(random, 0.5, 1)
				fuzz := 0.5 * random.Float64()
				mat = material.NewMetal(albedo, fuzz)
			default:
				// Glass
				mat = material.NewDielectric(1.5)
			}
			s.Add(geometry.SphereShape(geometry.NewSphere(center, radius, mat)))
		}
	}
}
