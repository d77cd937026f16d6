package scene

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/renderer"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Name           string
	CameraConfig   renderer.CameraConfig
	SamplingConfig renderer.SamplingConfig
	Background     integrator.Background
	Shapes         []geometry.Shape // Objects in the scene
}

// newScene creates an empty scene with the default background and sampling
func newScene(name string, cameraConfig renderer.CameraConfig) *Scene {
	return &Scene{
		Name:           name,
		CameraConfig:   cameraConfig,
		SamplingConfig: renderer.DefaultSamplingConfig(),
		Background:     integrator.DefaultBackground(),
		Shapes:         make([]geometry.Shape, 0),
	}
}

// NewGroundTriangles creates a large horizontal square at height y made of two
// triangles facing up
func NewGroundTriangles(y, extent float64, mat material.Material) []geometry.Shape {
	a := core.NewVec3(-extent, y, -extent)
	b := core.NewVec3(extent, y, -extent)
	c := core.NewVec3(extent, y, extent)
	d := core.NewVec3(-extent, y, extent)
	return []geometry.Shape{
		geometry.TriangleShape(geometry.NewTriangle(a, c, b, mat)),
		geometry.TriangleShape(geometry.NewTriangle(a, d, c, mat)),
	}
}

// Add appends shapes to the scene
func (s *Scene) Add(shapes ...geometry.Shape) {
	s.Shapes = append(s.Shapes, shapes...)
}

// GetPrimitiveCount returns the total number of primitive objects in the scene,
// counting every triangle of a mesh
func (s *Scene) GetPrimitiveCount() int {
	count := 0
	for _, shape := range s.Shapes {
		count += shape.PrimitiveCount()
	}
	return count
}

// BuildWorld creates the hittable the integrator traces against: a BVH over the
// scene shapes, or a linear List when useBVH is false. Building the BVH
// reorders s.Shapes in place.
func (s *Scene) BuildWorld(useBVH bool, logger *zap.Logger) (geometry.Hittable, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if !useBVH {
		logger.Info("using linear scene list",
			zap.String("scene", s.Name),
			zap.Int("shapes", len(s.Shapes)),
			zap.Int("primitives", s.GetPrimitiveCount()))
		return geometry.List(s.Shapes), nil
	}

	bvh, err := geometry.NewBVH(s.Shapes)
	if err != nil {
		return nil, fmt.Errorf("scene %q: %w", s.Name, err)
	}

	stats := bvh.Stats()
	logger.Info("built BVH",
		zap.String("scene", s.Name),
		zap.Int("shapes", len(s.Shapes)),
		zap.Int("primitives", stats.Primitives),
		zap.Int("nodes", stats.Nodes),
		zap.Int("leaves", stats.Leaves),
		zap.Int("max_depth", stats.MaxDepth),
		zap.Float64("avg_leaf_depth", stats.AvgLeafDepth))
	return bvh, nil
}
