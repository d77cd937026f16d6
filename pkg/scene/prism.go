package scene

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/renderer"
)

// NewPrismScene creates a brushed-metal triangular prism standing on a rusty
// metal ground made of two triangles
func NewPrismScene() *Scene {
	cameraConfig := renderer.CameraConfig{
		Center:        core.NewVec3(8, 2.5, -5),
		LookAt:        core.NewVec3(0, 0.5, 0),
		Up:            core.NewVec3(0, 1, 0),
		VFov:          20.0,
		AspectRatio:   16.0 / 9.0,
		Aperture:      0.1,
		FocusDistance: 10.0,
	}

	s := newScene("prism", cameraConfig)
	s.SamplingConfig = renderer.SamplingConfig{
		SamplesPerPixel: 20,
		MaxDepth:        50,
	}

	// Ground
	groundMetal := material.NewMetal(core.NewVec3(0.7, 0.2, 0.1), 0.7)
	s.Add(NewGroundTriangles(0, 1000, groundMetal)...)

	// Prism: a right triangle in the z=0 plane swept 2 units along z
	prismMetal := material.NewMetal(core.NewVec3(0.5, 0.5, 0.5), 0.2)
	p1 := core.NewVec3(2, 0, 0)
	p2 := core.NewVec3(2, 2, 0)
	p3 := core.NewVec3(0, 2, 0)
	p4 := core.NewVec3(0, 0, 0)
	p5 := core.NewVec3(0, 0, 2)
	p6 := core.NewVec3(0, 2, 2)

	faces := [][3]core.Vec3{
		{p2, p1, p4},
		{p3, p2, p4},
		{p3, p6, p2},
		{p1, p5, p4},
		{p3, p4, p6},
		{p4, p5, p6},
		{p1, p6, p5},
		{p1, p2, p6},
	}
	for _, f := range faces {
		s.Add(geometry.TriangleShape(geometry.NewTriangle(f[0], f[1], f[2], prismMetal)))
	}

	return s
}
