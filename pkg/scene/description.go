package scene

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/loaders"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/renderer"
)

// ErrInvalidDescription is returned for scene description files that cannot be decoded
var ErrInvalidDescription = errors.New("invalid scene description")

// Description is the YAML form of a scene
type Description struct {
	Name       string                 `yaml:"name"`
	Camera     CameraDescription      `yaml:"camera"`
	Background *BackgroundDescription `yaml:"background,omitempty"`
	Sampling   *SamplingDescription   `yaml:"sampling,omitempty"`
	Primitives []PrimitiveDescription `yaml:"primitives"`
}

// Vector is a 3-component YAML sequence such as [0, 1, 0]
type Vector []float64

// CameraDescription maps onto renderer.CameraConfig
type CameraDescription struct {
	LookFrom      Vector  `yaml:"look_from"`
	LookAt        Vector  `yaml:"look_at"`
	Up            Vector  `yaml:"up,omitempty"` // Defaults to +Y
	VFov          float64 `yaml:"vfov"`
	AspectRatio   float64 `yaml:"aspect_ratio,omitempty"` // Defaults to 16:9
	Aperture      float64 `yaml:"aperture,omitempty"`
	FocusDistance float64 `yaml:"focus_distance,omitempty"`
	ShutterOpen   float64 `yaml:"shutter_open,omitempty"`
	ShutterClose  float64 `yaml:"shutter_close,omitempty"`
}

// BackgroundDescription overrides the default sky gradient
type BackgroundDescription struct {
	Top    Vector `yaml:"top"`
	Bottom Vector `yaml:"bottom"`
}

// SamplingDescription overrides the default sample budget
type SamplingDescription struct {
	SamplesPerPixel int `yaml:"samples_per_pixel"`
	MaxDepth        int `yaml:"max_depth"`
}

// MaterialDescription is a material by type name: lambertian, metal or dielectric
type MaterialDescription struct {
	Type   string  `yaml:"type"`
	Albedo Vector  `yaml:"albedo,omitempty"`
	Fuzz   float64 `yaml:"fuzz,omitempty"`
	IOR    float64 `yaml:"ior,omitempty"`
}

// PrimitiveDescription holds the parameters of one primitive. Which fields are
// read depends on Type:
//
//	sphere:        center, radius
//	moving_sphere: center, center1, time0, time1, radius
//	triangle:      vertices (3)
//	mesh_triangle: vertices (3), normals (3)
//	cylinder:      base, top or height, radius, capped
//	mesh:          file (PLY), scale, rotation (degrees), translation
type PrimitiveDescription struct {
	Type        string              `yaml:"type"`
	Center      Vector              `yaml:"center,omitempty"`
	Center1     Vector              `yaml:"center1,omitempty"`
	Time0       float64             `yaml:"time0,omitempty"`
	Time1       float64             `yaml:"time1,omitempty"`
	Radius      float64             `yaml:"radius,omitempty"`
	Vertices    []Vector            `yaml:"vertices,omitempty"`
	Normals     []Vector            `yaml:"normals,omitempty"`
	Base        Vector              `yaml:"base,omitempty"`
	Top         Vector              `yaml:"top,omitempty"`
	Height      float64             `yaml:"height,omitempty"`
	Capped      *bool               `yaml:"capped,omitempty"` // Defaults to true
	File        string              `yaml:"file,omitempty"`
	Scale       float64             `yaml:"scale,omitempty"`
	Rotation    Vector              `yaml:"rotation,omitempty"`
	Translation Vector              `yaml:"translation,omitempty"`
	Material    MaterialDescription `yaml:"material"`
}

// LoadDescription reads a YAML scene description and builds the scene. Relative
// mesh paths are resolved against the description's directory.
func LoadDescription(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene description: %w", err)
	}

	desc, err := ParseDescription(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if desc.Name == "" {
		base := filepath.Base(path)
		desc.Name = base[:len(base)-len(filepath.Ext(base))]
	}

	s, err := desc.Build(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// ParseDescription decodes a YAML scene description. Unknown keys are rejected.
func ParseDescription(data []byte) (*Description, error) {
	var desc Description
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&desc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidDescription)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidDescription, err)
	}
	return &desc, nil
}

// Build converts the description into a scene. Every camera, material and
// primitive problem is reported, combined with multierr. baseDir resolves
// relative mesh file paths.
func (d *Description) Build(baseDir string) (*Scene, error) {
	var errs error

	cameraConfig, err := d.Camera.toConfig()
	errs = multierr.Append(errs, err)

	s := newScene(d.Name, cameraConfig)
	if s.Name == "" {
		s.Name = "description"
	}

	if d.Background != nil {
		top, err := d.Background.Top.toVec3("background.top")
		errs = multierr.Append(errs, err)
		bottom, err := d.Background.Bottom.toVec3("background.bottom")
		errs = multierr.Append(errs, err)
		s.Background = integrator.Background{Top: top, Bottom: bottom}
	}

	if d.Sampling != nil {
		if d.Sampling.SamplesPerPixel > 0 {
			s.SamplingConfig.SamplesPerPixel = d.Sampling.SamplesPerPixel
		}
		if d.Sampling.MaxDepth < 0 {
			errs = multierr.Append(errs, fmt.Errorf("%w: sampling.max_depth %d must not be negative",
				ErrInvalidDescription, d.Sampling.MaxDepth))
		} else if d.Sampling.MaxDepth > 0 {
			s.SamplingConfig.MaxDepth = d.Sampling.MaxDepth
		}
	}

	if len(d.Primitives) == 0 {
		errs = multierr.Append(errs, fmt.Errorf("%w: no primitives", ErrInvalidDescription))
	}

	for i, p := range d.Primitives {
		shape, err := p.build(baseDir)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("primitive %d (%s): %w", i, p.Type, err))
			continue
		}
		s.Add(shape)
	}

	if errs != nil {
		return nil, errs
	}
	return s, nil
}

func (c CameraDescription) toConfig() (renderer.CameraConfig, error) {
	var errs error

	lookFrom, err := c.LookFrom.toVec3("camera.look_from")
	errs = multierr.Append(errs, err)
	lookAt, err := c.LookAt.toVec3("camera.look_at")
	errs = multierr.Append(errs, err)

	up := core.NewVec3(0, 1, 0)
	if c.Up != nil {
		up, err = c.Up.toVec3("camera.up")
		errs = multierr.Append(errs, err)
	}

	aspect := c.AspectRatio
	if aspect == 0 {
		aspect = 16.0 / 9.0
	}

	config := renderer.CameraConfig{
		Center:        lookFrom,
		LookAt:        lookAt,
		Up:            up,
		VFov:          c.VFov,
		AspectRatio:   aspect,
		Aperture:      c.Aperture,
		FocusDistance: c.FocusDistance,
		TimeOpen:      c.ShutterOpen,
		TimeClose:     c.ShutterClose,
	}
	if errs != nil {
		return config, errs
	}

	// Surface camera problems while loading rather than at render time
	if _, err := renderer.NewCamera(config); err != nil {
		return config, err
	}
	return config, nil
}

func (m MaterialDescription) build() (material.Material, error) {
	switch m.Type {
	case "lambertian":
		albedo, err := m.Albedo.toVec3("material.albedo")
		if err != nil {
			return material.Material{}, err
		}
		return material.NewLambertian(albedo), nil
	case "metal":
		albedo, err := m.Albedo.toVec3("material.albedo")
		if err != nil {
			return material.Material{}, err
		}
		if m.Fuzz < 0 || m.Fuzz > 1 {
			return material.Material{}, fmt.Errorf("material.fuzz %g outside [0, 1]: %w", m.Fuzz, core.ErrInvalidPrimitive)
		}
		return material.NewMetal(albedo, m.Fuzz), nil
	case "dielectric":
		if m.IOR <= 0 || math.IsNaN(m.IOR) {
			return material.Material{}, fmt.Errorf("material.ior %g must be positive: %w", m.IOR, core.ErrInvalidPrimitive)
		}
		return material.NewDielectric(m.IOR), nil
	case "":
		return material.Material{}, fmt.Errorf("material.type is required: %w", core.ErrInvalidPrimitive)
	default:
		return material.Material{}, fmt.Errorf("unknown material type %q: %w", m.Type, core.ErrInvalidPrimitive)
	}
}

func (p PrimitiveDescription) build(baseDir string) (geometry.Shape, error) {
	mat, err := p.Material.build()
	if err != nil {
		return geometry.Shape{}, err
	}

	switch p.Type {
	case "sphere":
		center, err := p.Center.toVec3("center")
		if err != nil {
			return geometry.Shape{}, err
		}
		if err := checkRadius(p.Radius, false); err != nil {
			return geometry.Shape{}, err
		}
		return geometry.SphereShape(geometry.NewSphere(center, p.Radius, mat)), nil

	case "moving_sphere":
		center0, err0 := p.Center.toVec3("center")
		center1, err1 := p.Center1.toVec3("center1")
		if err := multierr.Combine(err0, err1, checkRadius(p.Radius, false)); err != nil {
			return geometry.Shape{}, err
		}
		if p.Time1 < p.Time0 {
			return geometry.Shape{}, fmt.Errorf("time1 %g before time0 %g: %w", p.Time1, p.Time0, core.ErrInvalidPrimitive)
		}
		return geometry.MovingSphereShape(geometry.NewMovingSphere(center0, center1, p.Time0, p.Time1, p.Radius, mat)), nil

	case "triangle":
		v, err := vectors(p.Vertices, "vertices")
		if err != nil {
			return geometry.Shape{}, err
		}
		if v[1].Subtract(v[0]).Cross(v[2].Subtract(v[0])).NearZero() {
			return geometry.Shape{}, fmt.Errorf("degenerate triangle: %w", core.ErrInvalidPrimitive)
		}
		return geometry.TriangleShape(geometry.NewTriangle(v[0], v[1], v[2], mat)), nil

	case "mesh_triangle":
		v, errV := vectors(p.Vertices, "vertices")
		n, errN := vectors(p.Normals, "normals")
		if err := multierr.Combine(errV, errN); err != nil {
			return geometry.Shape{}, err
		}
		if v[1].Subtract(v[0]).Cross(v[2].Subtract(v[0])).NearZero() {
			return geometry.Shape{}, fmt.Errorf("degenerate triangle: %w", core.ErrInvalidPrimitive)
		}
		return geometry.MeshTriangleShape(geometry.NewMeshTriangle(v[0], v[1], v[2], n[0], n[1], n[2], mat)), nil

	case "cylinder":
		return p.buildCylinder(mat)

	case "mesh":
		return p.buildMesh(baseDir, mat)

	case "":
		return geometry.Shape{}, fmt.Errorf("type is required: %w", core.ErrInvalidPrimitive)
	default:
		return geometry.Shape{}, fmt.Errorf("unknown primitive type %q: %w", p.Type, core.ErrInvalidPrimitive)
	}
}

func (p PrimitiveDescription) buildCylinder(mat material.Material) (geometry.Shape, error) {
	base := core.Vec3{}
	if p.Base != nil {
		var err error
		if base, err = p.Base.toVec3("base"); err != nil {
			return geometry.Shape{}, err
		}
	}

	var top core.Vec3
	switch {
	case p.Top != nil:
		var err error
		if top, err = p.Top.toVec3("top"); err != nil {
			return geometry.Shape{}, err
		}
	case p.Height > 0:
		top = base.Add(core.NewVec3(0, p.Height, 0))
	default:
		return geometry.Shape{}, fmt.Errorf("cylinder needs top or a positive height: %w", core.ErrInvalidPrimitive)
	}

	if err := checkRadius(p.Radius, true); err != nil {
		return geometry.Shape{}, err
	}
	if top.Subtract(base).NearZero() {
		return geometry.Shape{}, fmt.Errorf("cylinder has zero height: %w", core.ErrInvalidPrimitive)
	}

	capped := true
	if p.Capped != nil {
		capped = *p.Capped
	}
	return geometry.CylinderShape(geometry.NewCylinder(base, top, p.Radius, capped, mat)), nil
}

func (p PrimitiveDescription) buildMesh(baseDir string, mat material.Material) (geometry.Shape, error) {
	if p.File == "" {
		return geometry.Shape{}, fmt.Errorf("mesh file is required: %w", core.ErrInvalidPrimitive)
	}
	if p.Scale < 0 {
		return geometry.Shape{}, fmt.Errorf("mesh scale %g must not be negative: %w", p.Scale, core.ErrInvalidPrimitive)
	}

	options := &geometry.TriangleMeshOptions{Scale: p.Scale}
	if p.Rotation != nil {
		degrees, err := p.Rotation.toVec3("rotation")
		if err != nil {
			return geometry.Shape{}, err
		}
		options.Rotation = degrees.Multiply(math.Pi / 180.0)
	}
	if p.Translation != nil {
		translation, err := p.Translation.toVec3("translation")
		if err != nil {
			return geometry.Shape{}, err
		}
		options.Translation = translation
	}

	path := p.File
	if !filepath.IsAbs(path) && baseDir != "" {
		path = filepath.Join(baseDir, path)
	}
	plyData, err := loaders.LoadPLY(path)
	if err != nil {
		return geometry.Shape{}, err
	}
	options.Normals = plyData.Normals

	return geometry.NewTriangleMesh(plyData.Vertices, plyData.Faces, mat, options)
}

func checkRadius(radius float64, positive bool) error {
	if math.IsNaN(radius) || math.IsInf(radius, 0) {
		return fmt.Errorf("radius %g is not finite: %w", radius, core.ErrInvalidPrimitive)
	}
	if positive && radius <= 0 {
		return fmt.Errorf("radius %g must be positive: %w", radius, core.ErrInvalidPrimitive)
	}
	if radius == 0 {
		return fmt.Errorf("radius must not be zero: %w", core.ErrInvalidPrimitive)
	}
	return nil
}

func (v Vector) toVec3(field string) (core.Vec3, error) {
	if len(v) != 3 {
		return core.Vec3{}, fmt.Errorf("%w: %s: want 3 components, got %d", ErrInvalidDescription, field, len(v))
	}
	vec := core.NewVec3(v[0], v[1], v[2])
	if !vec.IsFinite() {
		return core.Vec3{}, fmt.Errorf("%w: %s: components must be finite", ErrInvalidDescription, field)
	}
	return vec, nil
}

func vectors(list []Vector, field string) ([3]core.Vec3, error) {
	var out [3]core.Vec3
	if len(list) != 3 {
		return out, fmt.Errorf("%w: %s: want 3 entries, got %d", ErrInvalidDescription, field, len(list))
	}
	var errs error
	for i, v := range list {
		vec, err := v.toVec3(fmt.Sprintf("%s[%d]", field, i))
		errs = multierr.Append(errs, err)
		out[i] = vec
	}
	return out, errs
}
