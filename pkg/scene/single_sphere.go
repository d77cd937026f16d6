package scene

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/renderer"
)

// NewSingleSphereScene creates one white diffuse unit sphere at the origin
// seen head-on from z=3
func NewSingleSphereScene() *Scene {
	cameraConfig := renderer.CameraConfig{
		Center:      core.NewVec3(0, 0, 3),
		LookAt:      core.NewVec3(0, 0, 0),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        60.0,
		AspectRatio: 2.0,
	}

	s := newScene("single-sphere", cameraConfig)
	s.Add(geometry.SphereShape(geometry.NewSphere(core.NewVec3(0, 0, 0), 1.0,
		material.NewLambertian(core.NewVec3(1, 1, 1)))))
	return s
}
