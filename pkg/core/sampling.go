package core

import (
	"math"
	"math/rand"
)

// RandomInUnitSphere generates a random point inside the unit sphere by rejection
func RandomInUnitSphere(random *rand.Rand) Vec3 {
	for {
		p := Vec3{
			X: 2*random.Float64() - 1,
			Y: 2*random.Float64() - 1,
			Z: 2*random.Float64() - 1,
		}
		if p.LengthSquared() < 1.0 {
			return p
		}
	}
}

// RandomUnitVector generates a uniformly distributed direction on the unit sphere
func RandomUnitVector(random *rand.Rand) Vec3 {
	z := 2*random.Float64() - 1
	a := 2 * math.Pi * random.Float64()
	r := math.Sqrt(1 - z*z)
	return NewVec3(r*math.Cos(a), r*math.Sin(a), z)
}

// RandomInUnitDisk generates a random point in the unit disk in the XY plane (for depth of field)
func RandomInUnitDisk(random *rand.Rand) Vec3 {
	for {
		p := NewVec3(2*random.Float64()-1, 2*random.Float64()-1, 0)
		if p.LengthSquared() < 1.0 {
			return p
		}
	}
}

// RandomVec3 returns a vector with each component uniform in [lo, hi)
func RandomVec3(random *rand.Rand, lo, hi float64) Vec3 {
	return NewVec3(
		lo+(hi-lo)*random.Float64(),
		lo+(hi-lo)*random.Float64(),
		lo+(hi-lo)*random.Float64(),
	)
}
