package material

import (
	"fmt"
	"math/rand"

	"github.com/df07/go-pathtracer/pkg/core"
)

// Kind identifies which scattering model a Material uses
type Kind uint8

const (
	// KindNone is the zero Material; it absorbs every ray
	KindNone Kind = iota
	KindLambertian
	KindMetal
	KindDielectric
)

// String returns the lower-case name of the kind
func (k Kind) String() string {
	switch k {
	case KindLambertian:
		return "lambertian"
	case KindMetal:
		return "metal"
	case KindDielectric:
		return "dielectric"
	default:
		return "none"
	}
}

// Material is a closed set of surface scattering models. It is a small
// immutable value: copies compare equal with ==.
type Material struct {
	kind            Kind
	albedo          core.Vec3 // Lambertian and Metal reflectance
	fuzz            float64   // Metal only, in [0, 1]
	refractiveIndex float64   // Dielectric only
}

// ScatterResult contains the result of material scattering
type ScatterResult struct {
	Scattered   core.Ray  // The scattered ray
	Attenuation core.Vec3 // Color attenuation
}

// HitRecord contains information about a ray-object intersection.
// Shapes overwrite it only when they report a hit.
type HitRecord struct {
	Point     core.Vec3 // Point of intersection
	Normal    core.Vec3 // Surface normal, always facing against the incoming ray
	Material  Material  // Material of the hit object
	T         float64   // Parameter t along the ray
	U, V      float64   // Surface coordinates
	FrontFace bool      // Whether ray hit the outward-facing side
}

// SetFaceNormal sets the normal vector and determines front/back face.
// outwardNormal is assumed to be unit length.
func (h *HitRecord) SetFaceNormal(ray core.Ray, outwardNormal core.Vec3) {
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Negate()
	}
}

// Kind returns the scattering model of the material
func (m Material) Kind() Kind {
	return m.kind
}

// Albedo returns the reflectance of Lambertian and Metal materials
func (m Material) Albedo() core.Vec3 {
	return m.albedo
}

// Fuzz returns the clamped fuzz factor of a Metal material
func (m Material) Fuzz() float64 {
	return m.fuzz
}

// RefractiveIndex returns the index of refraction of a Dielectric material
func (m Material) RefractiveIndex() float64 {
	return m.refractiveIndex
}

// String formats the material for logs and test failures
func (m Material) String() string {
	switch m.kind {
	case KindLambertian:
		return fmt.Sprintf("lambertian(%v)", m.albedo)
	case KindMetal:
		return fmt.Sprintf("metal(%v, fuzz=%g)", m.albedo, m.fuzz)
	case KindDielectric:
		return fmt.Sprintf("dielectric(ior=%g)", m.refractiveIndex)
	default:
		return "none"
	}
}

// Scatter produces an attenuation and an outgoing ray for a ray arriving at hit,
// or reports false when the ray is absorbed.
func (m Material) Scatter(rayIn core.Ray, hit *HitRecord, random *rand.Rand) (ScatterResult, bool) {
	switch m.kind {
	case KindLambertian:
		return m.scatterLambertian(rayIn, hit, random)
	case KindMetal:
		return m.scatterMetal(rayIn, hit, random)
	case KindDielectric:
		return m.scatterDielectric(rayIn, hit, random)
	default:
		return ScatterResult{}, false
	}
}
