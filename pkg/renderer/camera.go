package renderer

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/df07/go-pathtracer/pkg/core"
)

// RayGenerator maps normalized screen coordinates to primary rays
type RayGenerator interface {
	// GetRay returns the ray through (s, t), where (0, 0) is the lower-left
	// corner of the image and (1, 1) the upper-right
	GetRay(s, t float64, random *rand.Rand) core.Ray
}

// CameraConfig contains the parameters of a thin-lens camera
type CameraConfig struct {
	Center        core.Vec3 // Camera position (look-from)
	LookAt        core.Vec3 // Point the camera looks at
	Up            core.Vec3 // Up direction
	VFov          float64   // Vertical field of view in degrees
	AspectRatio   float64   // Width / height
	Aperture      float64   // Lens diameter; 0 is a pinhole camera
	FocusDistance float64   // Distance to the plane of focus; 0 means |LookAt - Center|
	TimeOpen      float64   // Shutter open time
	TimeClose     float64   // Shutter close time
}

// Camera generates rays for rendering. It is immutable and safe for concurrent use.
type Camera struct {
	origin          core.Vec3
	lowerLeftCorner core.Vec3
	horizontal      core.Vec3
	vertical        core.Vec3
	u, v, w         core.Vec3 // Camera basis: right, up, backward
	lensRadius      float64
	timeOpen        float64
	timeClose       float64
}

// NewCamera creates a camera from config. The error wraps core.ErrInvalidCamera.
func NewCamera(config CameraConfig) (*Camera, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}

	theta := config.VFov * math.Pi / 180
	viewportHeight := 2.0 * math.Tan(theta/2)
	viewportWidth := config.AspectRatio * viewportHeight

	w := config.Center.Subtract(config.LookAt).Normalize()
	u := config.Up.Cross(w).Normalize()
	v := w.Cross(u)

	focusDistance := config.FocusDistance
	if focusDistance == 0 {
		focusDistance = config.Center.Subtract(config.LookAt).Length()
	}

	horizontal := u.Multiply(focusDistance * viewportWidth)
	vertical := v.Multiply(focusDistance * viewportHeight)
	lowerLeftCorner := config.Center.
		Subtract(horizontal.Multiply(0.5)).
		Subtract(vertical.Multiply(0.5)).
		Subtract(w.Multiply(focusDistance))

	return &Camera{
		origin:          config.Center,
		lowerLeftCorner: lowerLeftCorner,
		horizontal:      horizontal,
		vertical:        vertical,
		u:               u,
		v:               v,
		w:               w,
		lensRadius:      config.Aperture / 2,
		timeOpen:        config.TimeOpen,
		timeClose:       config.TimeClose,
	}, nil
}

func (config CameraConfig) validate() error {
	switch {
	case !(config.VFov > 0 && config.VFov < 180):
		return fmt.Errorf("vertical field of view %g outside (0, 180): %w", config.VFov, core.ErrInvalidCamera)
	case !(config.AspectRatio > 0) || math.IsInf(config.AspectRatio, 0):
		return fmt.Errorf("aspect ratio %g must be positive: %w", config.AspectRatio, core.ErrInvalidCamera)
	case config.Aperture < 0:
		return fmt.Errorf("aperture %g is negative: %w", config.Aperture, core.ErrInvalidCamera)
	case config.FocusDistance < 0:
		return fmt.Errorf("focus distance %g is negative: %w", config.FocusDistance, core.ErrInvalidCamera)
	case config.TimeClose < config.TimeOpen:
		return fmt.Errorf("shutter closes at %g before opening at %g: %w", config.TimeClose, config.TimeOpen, core.ErrInvalidCamera)
	}

	view := config.Center.Subtract(config.LookAt)
	if view.NearZero() {
		return fmt.Errorf("look-from and look-at coincide at %v: %w", config.Center, core.ErrInvalidCamera)
	}
	if config.Up.Cross(view).NearZero() {
		return fmt.Errorf("up vector %v is parallel to the view direction: %w", config.Up, core.ErrInvalidCamera)
	}
	return nil
}

// GetRay generates a ray for screen coordinates (s, t) where 0 <= s,t <= 1.
// With a non-zero aperture the origin is jittered across the lens, and with
// an open shutter the ray time is drawn uniformly from [TimeOpen, TimeClose].
func (c *Camera) GetRay(s, t float64, random *rand.Rand) core.Ray {
	origin := c.origin
	if c.lensRadius > 0 {
		rd := core.RandomInUnitDisk(random).Multiply(c.lensRadius)
		origin = origin.Add(c.u.Multiply(rd.X)).Add(c.v.Multiply(rd.Y))
	}

	time := c.timeOpen
	if c.timeClose > c.timeOpen {
		time += random.Float64() * (c.timeClose - c.timeOpen)
	}

	direction := c.lowerLeftCorner.
		Add(c.horizontal.Multiply(s)).
		Add(c.vertical.Multiply(t)).
		Subtract(origin)

	return core.NewRayAt(origin, direction, time)
}

// Forward returns the unit viewing direction
func (c *Camera) Forward() core.Vec3 {
	return c.w.Negate()
}
