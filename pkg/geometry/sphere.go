package geometry

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center   core.Vec3
	Radius   float64
	Material material.Material
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64, mat material.Material) *Sphere {
	return &Sphere{
		Center:   center,
		Radius:   radius,
		Material: mat,
	}
}

// Hit tests if a ray intersects with the sphere
func (s *Sphere) Hit(ray core.Ray, tMin, tMax float64, rec *material.HitRecord) bool {
	return hitSphere(s.Center, s.Radius, s.Material, ray, tMin, tMax, rec)
}

// BoundingBox returns the axis-aligned bounding box for this sphere
func (s *Sphere) BoundingBox() (core.AABB, bool) {
	return sphereBox(s.Center, s.Radius), true
}

// hitSphere solves |O + tD - C|² = r² and fills rec with the nearest root in [tMin, tMax]
func hitSphere(center core.Vec3, radius float64, mat material.Material, ray core.Ray, tMin, tMax float64, rec *material.HitRecord) bool {
	oc := ray.Origin.Subtract(center)

	// Quadratic equation coefficients: at² + 2·halfB·t + c = 0
	a := ray.Direction.LengthSquared()
	if a == 0 {
		return false
	}
	halfB := oc.Dot(ray.Direction)
	c := oc.LengthSquared() - radius*radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 {
		return false
	}

	sqrtD := math.Sqrt(discriminant)

	// Try the closer intersection point first
	root := (-halfB - sqrtD) / a
	if root < tMin || root > tMax {
		root = (-halfB + sqrtD) / a
		if root < tMin || root > tMax {
			return false
		}
	}

	point := ray.At(root)
	outwardNormal := point.Subtract(center).Multiply(1.0 / radius)

	rec.T = root
	rec.Point = point
	rec.SetFaceNormal(ray, outwardNormal)
	rec.U, rec.V = sphereUV(outwardNormal)
	rec.Material = mat

	return true
}

// sphereUV maps a point on the unit sphere to [0,1]² with
// u around the Y axis from X=-1 and v from the bottom pole
func sphereUV(p core.Vec3) (u, v float64) {
	phi := math.Atan2(p.Z, p.X)
	theta := math.Asin(math.Max(-1, math.Min(1, p.Y)))
	u = 1 - (phi+math.Pi)/(2*math.Pi)
	v = (theta + math.Pi/2) / math.Pi
	return u, v
}

func sphereBox(center core.Vec3, radius float64) core.AABB {
	r := math.Abs(radius)
	extent := core.NewVec3(r, r, r)
	return core.NewAABB(center.Subtract(extent), center.Add(extent))
}
