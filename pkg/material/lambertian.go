package material

import (
	"math/rand"

	"github.com/df07/go-pathtracer/pkg/core"
)

// NewLambertian creates a perfectly diffuse material
func NewLambertian(albedo core.Vec3) Material {
	return Material{kind: KindLambertian, albedo: albedo}
}

// scatterLambertian offsets the normal by a random unit vector, which gives a
// cosine-weighted direction in the normal's hemisphere
func (m Material) scatterLambertian(rayIn core.Ray, hit *HitRecord, random *rand.Rand) (ScatterResult, bool) {
	direction := hit.Normal.Add(core.RandomUnitVector(random))

	// The random vector can cancel the normal exactly
	if direction.NearZero() {
		direction = hit.Normal
	}

	return ScatterResult{
		Scattered:   core.NewRayAt(hit.Point, direction, rayIn.Time),
		Attenuation: m.albedo,
	}, true
}
