package renderer

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
)

func testCameraConfig() CameraConfig {
	return CameraConfig{
		Center:      core.NewVec3(0, 0, 0),
		LookAt:      core.NewVec3(0, 0, -1),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        90,
		AspectRatio: 2,
	}
}

func assertVecNear(t *testing.T, name string, got, want core.Vec3, tolerance float64) {
	t.Helper()
	if math.Abs(got.X-want.X) > tolerance ||
		math.Abs(got.Y-want.Y) > tolerance ||
		math.Abs(got.Z-want.Z) > tolerance {
		t.Errorf("Expected %s %v, got %v", name, want, got)
	}
}

func TestCameraGetRay_Pinhole(t *testing.T) {
	camera, err := NewCamera(testCameraConfig())
	if err != nil {
		t.Fatalf("NewCamera: %v", err)
	}

	assertVecNear(t, "forward", camera.Forward(), core.NewVec3(0, 0, -1), 1e-12)

	// A pinhole camera with a closed shutter never draws random numbers
	tests := []struct {
		name      string
		s, t      float64
		direction core.Vec3
	}{
		{"center", 0.5, 0.5, core.NewVec3(0, 0, -1)},
		{"lower left", 0, 0, core.NewVec3(-2, -1, -1)},
		{"upper right", 1, 1, core.NewVec3(2, 1, -1)},
		{"upper left", 0, 1, core.NewVec3(-2, 1, -1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := camera.GetRay(tt.s, tt.t, nil)
			assertVecNear(t, "origin", ray.Origin, core.NewVec3(0, 0, 0), 0)
			assertVecNear(t, "direction", ray.Direction, tt.direction, 1e-12)
			if ray.Time != 0 {
				t.Errorf("Expected time 0, got %f", ray.Time)
			}
		})
	}
}

func TestCameraGetRay_FocusDistance(t *testing.T) {
	config := testCameraConfig()
	config.Center = core.NewVec3(0, 0, 5)
	config.LookAt = core.NewVec3(0, 0, 0)

	camera, err := NewCamera(config)
	if err != nil {
		t.Fatalf("NewCamera: %v", err)
	}

	// Focus distance 0 places the focus plane through LookAt
	ray := camera.GetRay(0.5, 0.5, nil)
	assertVecNear(t, "focus point", ray.At(1), core.NewVec3(0, 0, 0), 1e-12)

	config.FocusDistance = 2
	camera, err = NewCamera(config)
	if err != nil {
		t.Fatalf("NewCamera: %v", err)
	}
	ray = camera.GetRay(0.5, 0.5, nil)
	assertVecNear(t, "focus point", ray.At(1), core.NewVec3(0, 0, 3), 1e-12)
}

func TestCameraGetRay_ThinLens(t *testing.T) {
	config := testCameraConfig()
	config.Aperture = 0.5
	config.FocusDistance = 4
	camera, err := NewCamera(config)
	if err != nil {
		t.Fatalf("NewCamera: %v", err)
	}
	random := rand.New(rand.NewSource(1))

	focusPoint := core.NewVec3(0, 0, -4)
	for i := 0; i < 200; i++ {
		ray := camera.GetRay(0.5, 0.5, random)
		if ray.Origin.Length() > 0.25+1e-12 || ray.Origin.Z != 0 {
			t.Fatalf("Expected origin on lens disk of radius 0.25, got %v", ray.Origin)
		}
		// Every ray through the image center converges at the focus plane
		assertVecNear(t, "focus point", ray.At(1), focusPoint, 1e-9)
	}
}

func TestCameraGetRay_Shutter(t *testing.T) {
	config := testCameraConfig()
	config.TimeOpen = 0.25
	config.TimeClose = 0.75
	camera, err := NewCamera(config)
	if err != nil {
		t.Fatalf("NewCamera: %v", err)
	}
	random := rand.New(rand.NewSource(2))

	var sum float64
	const n = 5000
	for i := 0; i < n; i++ {
		ray := camera.GetRay(0.5, 0.5, random)
		if ray.Time < 0.25 || ray.Time >= 0.75 {
			t.Fatalf("Expected time in [0.25, 0.75), got %f", ray.Time)
		}
		sum += ray.Time
	}
	if mean := sum / n; math.Abs(mean-0.5) > 0.01 {
		t.Errorf("Expected mean time near 0.5, got %f", mean)
	}
}

func TestNewCamera_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*CameraConfig)
	}{
		{"zero fov", func(c *CameraConfig) { c.VFov = 0 }},
		{"straight angle fov", func(c *CameraConfig) { c.VFov = 180 }},
		{"zero aspect", func(c *CameraConfig) { c.AspectRatio = 0 }},
		{"nan aspect", func(c *CameraConfig) { c.AspectRatio = math.NaN() }},
		{"negative aperture", func(c *CameraConfig) { c.Aperture = -1 }},
		{"negative focus distance", func(c *CameraConfig) { c.FocusDistance = -1 }},
		{"shutter reversed", func(c *CameraConfig) { c.TimeOpen, c.TimeClose = 1, 0 }},
		{"look at self", func(c *CameraConfig) { c.LookAt = c.Center }},
		{"up parallel to view", func(c *CameraConfig) { c.Up = core.NewVec3(0, 0, 1) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := testCameraConfig()
			tt.modify(&config)
			camera, err := NewCamera(config)
			if !errors.Is(err, core.ErrInvalidCamera) {
				t.Errorf("Expected ErrInvalidCamera, got %v", err)
			}
			if camera != nil {
				t.Error("Expected nil camera on error")
			}
		})
	}
}
