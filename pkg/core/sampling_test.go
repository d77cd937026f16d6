package core

import (
	"math"
	"math/rand"
	"testing"
)

func TestRandomUnitVector_IsUnitLength(t *testing.T) {
	random := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		v := RandomUnitVector(random)
		if math.Abs(v.Length()-1) > 1e-9 {
			t.Fatalf("RandomUnitVector length %f", v.Length())
		}
	}
}

func TestRandomUnitVector_MeanNearZero(t *testing.T) {
	random := rand.New(rand.NewSource(2))
	const n = 20000
	var sum Vec3
	for i := 0; i < n; i++ {
		sum = sum.Add(RandomUnitVector(random))
	}
	mean := sum.Multiply(1.0 / n)
	if mean.Length() > 0.03 {
		t.Errorf("Expected mean direction near zero, got %v", mean)
	}
}

func TestRandomInUnitSphereAndDisk(t *testing.T) {
	random := rand.New(rand.NewSource(3))
	for i := 0; i < 1000; i++ {
		if p := RandomInUnitSphere(random); p.LengthSquared() >= 1 {
			t.Fatalf("point %v outside unit sphere", p)
		}
		d := RandomInUnitDisk(random)
		if d.LengthSquared() >= 1 || d.Z != 0 {
			t.Fatalf("point %v outside unit disk", d)
		}
	}
}
