package material

import (
	"math/rand"

	"github.com/df07/go-pathtracer/pkg/core"
)

// NewMetal creates a new metal material. fuzz is clamped to [0, 1]:
// 0 is a perfect mirror, 1 is very fuzzy.
func NewMetal(albedo core.Vec3, fuzz float64) Material {
	if fuzz > 1.0 {
		fuzz = 1.0
	}
	if fuzz < 0.0 {
		fuzz = 0.0
	}
	return Material{kind: KindMetal, albedo: albedo, fuzz: fuzz}
}

func (m Material) scatterMetal(rayIn core.Ray, hit *HitRecord, random *rand.Rand) (ScatterResult, bool) {
	reflected := reflect(rayIn.Direction.Normalize(), hit.Normal)
	if m.fuzz > 0 {
		reflected = reflected.Add(core.RandomInUnitSphere(random).Multiply(m.fuzz))
	}

	scattered := core.NewRayAt(hit.Point, reflected, rayIn.Time)

	// Fuzz can push the ray below the surface; treat that as absorbed
	scatters := scattered.Direction.Dot(hit.Normal) > 0

	return ScatterResult{
		Scattered:   scattered,
		Attenuation: m.albedo,
	}, scatters
}

// reflect calculates the reflection of a vector v off a surface with normal n
func reflect(v, n core.Vec3) core.Vec3 {
	// r = v - 2*dot(v,n)*n
	return v.Subtract(n.Multiply(2 * v.Dot(n)))
}
