package geometry

import (
	"errors"
	"math"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// unitQuad is a 1x1 square in the z=0 plane facing +Z
var unitQuad = []core.Vec3{
	core.NewVec3(0, 0, 0),
	core.NewVec3(1, 0, 0),
	core.NewVec3(1, 1, 0),
	core.NewVec3(0, 1, 0),
}

var unitQuadFaces = []int{0, 1, 2, 0, 2, 3}

func TestTriangleMesh_Hit(t *testing.T) {
	mesh, err := NewTriangleMesh(unitQuad, unitQuadFaces, testMaterial, nil)
	if err != nil {
		t.Fatalf("NewTriangleMesh: %v", err)
	}
	if mesh.Kind() != KindBVH {
		t.Errorf("Expected mesh wrapped in a BVH, got %v", mesh.Kind())
	}
	if mesh.PrimitiveCount() != 2 {
		t.Errorf("Expected 2 triangles, got %d", mesh.PrimitiveCount())
	}

	// One ray per triangle of the quad
	for _, p := range []core.Vec3{core.NewVec3(0.75, 0.25, 1), core.NewVec3(0.25, 0.75, 1)} {
		var rec material.HitRecord
		if !mesh.Hit(core.NewRay(p, core.NewVec3(0, 0, -1)), 0.001, math.Inf(1), &rec) {
			t.Fatalf("Expected hit at %v", p)
		}
		if math.Abs(rec.T-1) > 1e-9 {
			t.Errorf("Expected t=1, got %f", rec.T)
		}
		assertVecNear(t, "normal", rec.Normal, core.NewVec3(0, 0, 1), 1e-9)
	}
}

func TestTriangleMesh_Transform(t *testing.T) {
	mesh, err := NewTriangleMesh(unitQuad, unitQuadFaces, testMaterial, &TriangleMeshOptions{
		Scale:       2,
		Rotation:    core.NewVec3(-math.Pi/2, 0, 0),
		Translation: core.NewVec3(0, -1, 0),
	})
	if err != nil {
		t.Fatalf("NewTriangleMesh: %v", err)
	}

	// Rotated -90° around X the quad lies in the y=0 plane spanning z in [-2, 0],
	// then moves down to y=-1
	box, ok := mesh.BoundingBox()
	if !ok {
		t.Fatal("Expected a bounding box")
	}
	assertVecNear(t, "min", box.Min, core.NewVec3(0, -1-boxPadding/2, -2), 1e-9)
	assertVecNear(t, "max", box.Max, core.NewVec3(2, -1+boxPadding/2, 0), 1e-9)

	var rec material.HitRecord
	if !mesh.Hit(core.NewRay(core.NewVec3(1.5, 2, -0.5), core.NewVec3(0, -1, 0)), 0.001, math.Inf(1), &rec) {
		t.Fatal("Expected hit on transformed mesh")
	}
	if math.Abs(rec.T-3) > 1e-9 {
		t.Errorf("Expected t=3, got %f", rec.T)
	}
	if !rec.FrontFace {
		t.Error("Expected rotated quad to face +Y")
	}
}

func TestTriangleMesh_SmoothNormals(t *testing.T) {
	tilted := core.NewVec3(1, 0, 1).Normalize()
	normals := []core.Vec3{tilted, tilted, tilted, tilted}
	mesh, err := NewTriangleMesh(unitQuad, unitQuadFaces, testMaterial, &TriangleMeshOptions{Normals: normals})
	if err != nil {
		t.Fatalf("NewTriangleMesh: %v", err)
	}

	var rec material.HitRecord
	if !mesh.Hit(core.NewRay(core.NewVec3(0.5, 0.25, 1), core.NewVec3(0, 0, -1)), 0.001, math.Inf(1), &rec) {
		t.Fatal("Expected hit, but got miss")
	}
	assertVecNear(t, "shading normal", rec.Normal, tilted, 1e-9)
	if !rec.FrontFace {
		t.Error("Expected front face decided by the geometric normal")
	}
}

func TestTriangleMesh_Errors(t *testing.T) {
	tests := []struct {
		name    string
		faces   []int
		options *TriangleMeshOptions
	}{
		{"no faces", nil, nil},
		{"incomplete face", []int{0, 1}, nil},
		{"index out of range", []int{0, 1, 4}, nil},
		{"negative index", []int{0, -1, 2}, nil},
		{"normal count mismatch", unitQuadFaces, &TriangleMeshOptions{Normals: []core.Vec3{core.NewVec3(0, 0, 1)}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTriangleMesh(unitQuad, tt.faces, testMaterial, tt.options)
			if !errors.Is(err, core.ErrInvalidPrimitive) {
				t.Errorf("Expected ErrInvalidPrimitive, got %v", err)
			}
		})
	}
}

func TestRotateVertex(t *testing.T) {
	tests := []struct {
		name     string
		rotation core.Vec3
		expected core.Vec3
	}{
		{"none", core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0)},
		{"quarter turn around Y", core.NewVec3(0, math.Pi/2, 0), core.NewVec3(0, 0, -1)},
		{"quarter turn around Z", core.NewVec3(0, 0, math.Pi/2), core.NewVec3(0, 1, 0)},
		{"quarter turn around X leaves X axis", core.NewVec3(math.Pi/2, 0, 0), core.NewVec3(1, 0, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertVecNear(t, "rotated", rotateVertex(core.NewVec3(1, 0, 0), tt.rotation), tt.expected, 1e-12)
		})
	}
}
