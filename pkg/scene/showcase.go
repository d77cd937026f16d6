package scene

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/renderer"
)

// NewShowcaseScene creates a scene exercising every primitive type: motion
// blurred spheres, capped and open cylinders, a smooth-shaded triangle mesh and
// a glass sphere on a triangle ground
func NewShowcaseScene() (*Scene, error) {
	cameraConfig := renderer.CameraConfig{
		Center:        core.NewVec3(0, 2, 7),
		LookAt:        core.NewVec3(0, 0.8, 0),
		Up:            core.NewVec3(0, 1, 0),
		VFov:          40.0,
		AspectRatio:   16.0 / 9.0,
		Aperture:      0.02,
		FocusDistance: 0.0, // Auto-calculate focus distance
		TimeOpen:      0.0,
		TimeClose:     1.0,
	}

	s := newScene("showcase", cameraConfig)
	s.SamplingConfig = renderer.SamplingConfig{
		SamplesPerPixel: 100,
		MaxDepth:        40,
	}

	// Ground
	ground := material.NewLambertian(core.NewVec3(0.48, 0.83, 0.53))
	s.Add(NewGroundTriangles(0, 100, ground)...)

	// Bouncing spheres, blurred by the open shutter
	bounceColors := []core.Vec3{
		core.NewVec3(0.8, 0.3, 0.3),
		core.NewVec3(0.9, 0.6, 0.2),
		core.NewVec3(0.3, 0.5, 0.9),
	}
	for i, albedo := range bounceColors {
		x := -3.0 + float64(i)*0.8
		center0 := core.NewVec3(x, 0.3, 1.0)
		center1 := center0.Add(core.NewVec3(0, 0.25*float64(i+1), 0))
		s.Add(geometry.MovingSphereShape(geometry.NewMovingSphere(
			center0, center1, 0.0, 1.0, 0.3, material.NewLambertian(albedo))))
	}

	// Cylinders: a capped copper pillar and an open glass tube
	copper := material.NewMetal(core.NewVec3(0.85, 0.5, 0.3), 0.1)
	s.Add(geometry.CylinderShape(geometry.NewCylinder(
		core.NewVec3(-1.2, 0, -1), core.NewVec3(-1.2, 1.6, -1), 0.35, true, copper)))
	s.Add(geometry.CylinderShape(geometry.NewCylinder(
		core.NewVec3(2.6, 0, 0.5), core.NewVec3(2.6, 0.8, 0.5), 0.3, false, material.NewDielectric(1.5))))

	// Smooth mesh sphere
	vertices, faces := uvSphere(16, 32)
	mesh, err := geometry.NewTriangleMesh(vertices, faces,
		material.NewMetal(core.NewVec3(0.8, 0.8, 0.85), 0.0),
		&geometry.TriangleMeshOptions{
			Normals:     vertices, // Unit sphere: positions are the normals
			Scale:       0.8,
			Translation: core.NewVec3(0.6, 0.8, -0.6),
		})
	if err != nil {
		return nil, err
	}
	s.Add(mesh)

	// Glass sphere in front
	s.Add(geometry.SphereShape(geometry.NewSphere(core.NewVec3(1.4, 0.45, 1.4), 0.45, material.NewDielectric(1.5))))

	return s, nil
}

// uvSphere returns the vertices and face indices of a unit sphere tessellated
// into stacks latitude bands and slices longitude segments. The seam column is
// duplicated and the pole bands emit one triangle per segment.
func uvSphere(stacks, slices int) ([]core.Vec3, []int) {
	vertices := make([]core.Vec3, 0, (stacks+1)*(slices+1))
	for i := 0; i <= stacks; i++ {
		theta := math.Pi * float64(i) / float64(stacks)
		for j := 0; j <= slices; j++ {
			phi := 2 * math.Pi * float64(j) / float64(slices)
			vertices = append(vertices, core.NewVec3(
				math.Sin(theta)*math.Cos(phi),
				math.Cos(theta),
				math.Sin(theta)*math.Sin(phi),
			))
		}
	}

	row := slices + 1
	var faces []int
	for i := 0; i < stacks; i++ {
		for j := 0; j < slices; j++ {
			a := i*row + j
			b := a + row
			if i != 0 {
				faces = append(faces, a, b, a+1)
			}
			if i != stacks-1 {
				faces = append(faces, a+1, b, b+1)
			}
		}
	}
	return vertices, faces
}
