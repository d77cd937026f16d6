package scene

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/multierr"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
)

const quadPLY = `ply
format ascii 1.0
element vertex 4
property float x
property float y
property float z
element face 1
property list uchar int vertex_indices
end_header
0 0 0
1 0 0
1 1 0
0 1 0
4 0 1 2 3
`

const fullDescription = `
name: everything
camera:
  look_from: [0, 1, 5]
  look_at: [0, 0, 0]
  vfov: 45
  aspect_ratio: 1.5
  aperture: 0.05
  shutter_open: 0
  shutter_close: 1
background:
  top: [0, 0, 0]
  bottom: [0, 0, 0]
sampling:
  samples_per_pixel: 8
  max_depth: 12
primitives:
  - type: sphere
    center: [0, 0, 0]
    radius: 1
    material: {type: lambertian, albedo: [1, 1, 1]}
  - type: moving_sphere
    center: [2, 0, 0]
    center1: [2, 1, 0]
    time0: 0
    time1: 1
    radius: 0.5
    material: {type: metal, albedo: [0.8, 0.8, 0.8], fuzz: 0.3}
  - type: triangle
    vertices: [[-1, 0, -1], [1, 0, -1], [0, 1, -1]]
    material: {type: dielectric, ior: 1.5}
  - type: mesh_triangle
    vertices: [[-1, 0, -2], [1, 0, -2], [0, 1, -2]]
    normals: [[0, 0, 1], [0, 0, 1], [0, 0, 1]]
    material: {type: lambertian, albedo: [0.2, 0.4, 0.6]}
  - type: cylinder
    base: [3, 0, 0]
    height: 2
    radius: 0.25
    material: {type: metal, albedo: [0.9, 0.5, 0.3]}
  - type: cylinder
    base: [-3, 0, 0]
    top: [-3, 0, 2]
    radius: 0.25
    capped: false
    material: {type: lambertian, albedo: [0.5, 0.5, 0.5]}
  - type: mesh
    file: quad.ply
    scale: 2
    rotation: [0, 90, 0]
    translation: [0, 0, -3]
    material: {type: lambertian, albedo: [0.7, 0.7, 0.7]}
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func TestLoadDescription(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "quad.ply", quadPLY)
	path := writeFile(t, dir, "everything.yaml", fullDescription)

	s, err := LoadDescription(path)
	if err != nil {
		t.Fatalf("LoadDescription: %v", err)
	}

	if s.Name != "everything" {
		t.Errorf("Expected name 'everything', got %q", s.Name)
	}
	if len(s.Shapes) != 7 {
		t.Fatalf("Expected 7 shapes, got %d", len(s.Shapes))
	}

	expectedKinds := []geometry.Kind{
		geometry.KindSphere,
		geometry.KindMovingSphere,
		geometry.KindTriangle,
		geometry.KindMeshTriangle,
		geometry.KindCylinder,
		geometry.KindCylinder,
		geometry.KindBVH,
	}
	for i, kind := range expectedKinds {
		if s.Shapes[i].Kind() != kind {
			t.Errorf("Shape %d: expected %v, got %v", i, kind, s.Shapes[i].Kind())
		}
	}

	// 6 primitives plus the quad's two triangles
	if got := s.GetPrimitiveCount(); got != 8 {
		t.Errorf("Expected 8 primitives, got %d", got)
	}

	if s.CameraConfig.AspectRatio != 1.5 || s.CameraConfig.VFov != 45 || s.CameraConfig.TimeClose != 1 {
		t.Errorf("Camera config not applied: %+v", s.CameraConfig)
	}
	if s.CameraConfig.Up != core.NewVec3(0, 1, 0) {
		t.Errorf("Expected default up (0,1,0), got %v", s.CameraConfig.Up)
	}
	if s.Background.Top != (core.Vec3{}) || s.Background.Bottom != (core.Vec3{}) {
		t.Errorf("Expected black background, got %+v", s.Background)
	}
	if s.SamplingConfig.SamplesPerPixel != 8 || s.SamplingConfig.MaxDepth != 12 {
		t.Errorf("Expected sampling {8 12}, got %+v", s.SamplingConfig)
	}
}

func TestLoadDescription_MeshTransform(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "quad.ply", quadPLY)
	path := writeFile(t, dir, "mesh.yaml", fullDescription)

	s, err := LoadDescription(path)
	if err != nil {
		t.Fatalf("LoadDescription: %v", err)
	}
	mesh := s.Shapes[6]

	// Scaled by 2 then turned 90 degrees about Y, the unit quad in z=0 ends
	// up in the plane x=0 with a side of 2
	box, ok := mesh.BoundingBox()
	if !ok {
		t.Fatal("Expected mesh bounding box")
	}
	if math.Abs(box.Max.Y-2) > 1e-6 || math.Abs(box.Min.Y) > 1e-6 {
		t.Errorf("Expected mesh y extent [0, 2], got [%f, %f]", box.Min.Y, box.Max.Y)
	}
	if box.Max.X-box.Min.X > 1e-3 {
		t.Errorf("Expected mesh to lie in a plane of constant x, got x extent [%f, %f]", box.Min.X, box.Max.X)
	}
	if math.Abs(box.Max.Z-box.Min.Z-2) > 1e-3 {
		t.Errorf("Expected mesh z extent of 2, got [%f, %f]", box.Min.Z, box.Max.Z)
	}
}

func TestLoadDescription_DefaultName(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "lonely.yml", `
camera: {look_from: [0, 0, 3], look_at: [0, 0, 0], vfov: 60}
primitives:
  - {type: sphere, center: [0, 0, 0], radius: 1, material: {type: lambertian, albedo: [1, 1, 1]}}
`)

	s, err := Load(path, 0)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Name != "lonely" {
		t.Errorf("Expected name from file 'lonely', got %q", s.Name)
	}
	if s.CameraConfig.AspectRatio != 16.0/9.0 {
		t.Errorf("Expected default aspect 16:9, got %f", s.CameraConfig.AspectRatio)
	}
	if s.Shapes[0].Kind() != geometry.KindSphere {
		t.Errorf("Expected sphere, got %v", s.Shapes[0].Kind())
	}
}

func TestLoadDescription_MissingFile(t *testing.T) {
	_, err := LoadDescription(filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected os.ErrNotExist, got %v", err)
	}
}

func TestParseDescription_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"unknown field", "camera: {look_from: [0, 0, 1], look_at: [0, 0, 0], vfov: 40, zoom: 2}\n"},
		{"wrong type", "primitives: 3\n"},
		{"bad yaml", "camera: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDescription([]byte(tt.input))
			if !errors.Is(err, ErrInvalidDescription) {
				t.Errorf("Expected ErrInvalidDescription, got %v", err)
			}
		})
	}
}

func TestDescriptionBuild_AggregatesErrors(t *testing.T) {
	desc, err := ParseDescription([]byte(`
camera: {look_from: [0, 0, 3], look_at: [0, 0, 0], vfov: 60}
primitives:
  - {type: sphere, center: [0, 0, 0], radius: 0, material: {type: lambertian, albedo: [1, 1, 1]}}
  - {type: cone, material: {type: lambertian, albedo: [1, 1, 1]}}
  - {type: triangle, vertices: [[0, 0, 0], [1, 1, 1], [2, 2, 2]], material: {type: metal, albedo: [1, 1, 1]}}
  - {type: sphere, center: [0, 0, 0], radius: 1, material: {type: dielectric, ior: 0}}
  - {type: cylinder, base: [0, 0, 0], radius: 1, material: {type: lambertian, albedo: [1, 1, 1]}}
  - {type: sphere, center: [0, 0, 0], radius: 1, material: {type: lambertian, albedo: [1, 1, 1]}}
`))
	if err != nil {
		t.Fatalf("ParseDescription: %v", err)
	}

	s, err := desc.Build("")
	if err == nil {
		t.Fatal("Expected build error")
	}
	if s != nil {
		t.Error("Expected no scene on error")
	}
	if !errors.Is(err, core.ErrInvalidPrimitive) {
		t.Errorf("Expected ErrInvalidPrimitive, got %v", err)
	}

	errs := multierr.Errors(err)
	if len(errs) != 5 {
		t.Fatalf("Expected 5 errors, got %d: %v", len(errs), err)
	}
	for i, e := range errs {
		if !strings.Contains(e.Error(), fmt.Sprintf("primitive %d ", i)) {
			t.Errorf("Error %d does not name its primitive: %v", i, e)
		}
	}
}

func TestDescriptionBuild_FieldErrors(t *testing.T) {
	camera := "camera: {look_from: [0, 0, 3], look_at: [0, 0, 0], vfov: 60}\n"
	tests := []struct {
		name     string
		input    string
		expected error
	}{
		{
			name:     "no primitives",
			input:    camera,
			expected: ErrInvalidDescription,
		},
		{
			name: "short vector",
			input: camera + "primitives:\n" +
				"  - {type: sphere, center: [0, 0], radius: 1, material: {type: lambertian, albedo: [1, 1, 1]}}\n",
			expected: ErrInvalidDescription,
		},
		{
			name: "missing normals",
			input: camera + "primitives:\n" +
				"  - {type: mesh_triangle, vertices: [[0, 0, 0], [1, 0, 0], [0, 1, 0]], material: {type: lambertian, albedo: [1, 1, 1]}}\n",
			expected: ErrInvalidDescription,
		},
		{
			name: "fuzz out of range",
			input: camera + "primitives:\n" +
				"  - {type: sphere, center: [0, 0, 0], radius: 1, material: {type: metal, albedo: [1, 1, 1], fuzz: 2}}\n",
			expected: core.ErrInvalidPrimitive,
		},
		{
			name: "missing material",
			input: camera + "primitives:\n" +
				"  - {type: sphere, center: [0, 0, 0], radius: 1}\n",
			expected: core.ErrInvalidPrimitive,
		},
		{
			name: "moving sphere time reversed",
			input: camera + "primitives:\n" +
				"  - {type: moving_sphere, center: [0, 0, 0], center1: [1, 0, 0], time0: 1, time1: 0, radius: 1, material: {type: lambertian, albedo: [1, 1, 1]}}\n",
			expected: core.ErrInvalidPrimitive,
		},
		{
			name: "zero height cylinder",
			input: camera + "primitives:\n" +
				"  - {type: cylinder, base: [0, 0, 0], top: [0, 0, 0], radius: 1, material: {type: lambertian, albedo: [1, 1, 1]}}\n",
			expected: core.ErrInvalidPrimitive,
		},
		{
			name: "mesh without file",
			input: camera + "primitives:\n" +
				"  - {type: mesh, material: {type: lambertian, albedo: [1, 1, 1]}}\n",
			expected: core.ErrInvalidPrimitive,
		},
		{
			name: "camera looks at itself",
			input: "camera: {look_from: [0, 0, 0], look_at: [0, 0, 0], vfov: 60}\nprimitives:\n" +
				"  - {type: sphere, center: [0, 0, 0], radius: 1, material: {type: lambertian, albedo: [1, 1, 1]}}\n",
			expected: core.ErrInvalidCamera,
		},
		{
			name: "camera missing vfov",
			input: "camera: {look_from: [0, 0, 3], look_at: [0, 0, 0]}\nprimitives:\n" +
				"  - {type: sphere, center: [0, 0, 0], radius: 1, material: {type: lambertian, albedo: [1, 1, 1]}}\n",
			expected: core.ErrInvalidCamera,
		},
		{
			name: "negative max depth",
			input: camera + "sampling: {max_depth: -1}\nprimitives:\n" +
				"  - {type: sphere, center: [0, 0, 0], radius: 1, material: {type: lambertian, albedo: [1, 1, 1]}}\n",
			expected: ErrInvalidDescription,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			desc, err := ParseDescription([]byte(tt.input))
			if err != nil {
				t.Fatalf("ParseDescription: %v", err)
			}
			_, err = desc.Build("")
			if !errors.Is(err, tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, err)
			}
		})
	}
}

func TestDescriptionBuild_NegativeRadiusSphere(t *testing.T) {
	desc, err := ParseDescription([]byte(`
camera: {look_from: [0, 0, 3], look_at: [0, 0, 0], vfov: 60}
primitives:
  - {type: sphere, center: [0, 0, 0], radius: 0.5, material: {type: dielectric, ior: 1.5}}
  - {type: sphere, center: [0, 0, 0], radius: -0.45, material: {type: dielectric, ior: 1.5}}
`))
	if err != nil {
		t.Fatalf("ParseDescription: %v", err)
	}

	s, err := desc.Build("")
	if err != nil {
		t.Fatalf("Expected hollow glass sphere to build, got %v", err)
	}

	// The inner surface of a hollow sphere has its normal pointing inward
	ray := core.NewRay(core.NewVec3(0, 0, 3), core.NewVec3(0, 0, -1))
	var rec material.HitRecord
	if !s.Shapes[1].Hit(ray, 0.001, math.Inf(1), &rec) {
		t.Fatal("Expected hit on the inner sphere")
	}
	if math.Abs(rec.T-2.55) > 1e-9 {
		t.Errorf("Expected t=2.55, got %f", rec.T)
	}
	if rec.FrontFace {
		t.Error("Expected the negative-radius sphere to be hit from the back")
	}
}
