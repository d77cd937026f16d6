package geometry

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// Cylinder represents a finite cylinder around an arbitrary axis, optionally closed by end caps
type Cylinder struct {
	BaseCenter core.Vec3
	TopCenter  core.Vec3
	Radius     float64
	Capped     bool
	Material   material.Material

	// Cached derived values
	axis      core.Vec3 // Unit vector from base to top
	height    float64   // Distance between base and top
	tangent   core.Vec3 // Unit vector perpendicular to axis, u=0 seam
	bitangent core.Vec3 // axis × tangent
}

// NewCylinder creates a new cylinder from its base and top centers
func NewCylinder(baseCenter, topCenter core.Vec3, radius float64, capped bool, mat material.Material) *Cylinder {
	axisVector := topCenter.Subtract(baseCenter)
	axis := axisVector.Normalize()

	reference := core.NewVec3(1, 0, 0)
	if math.Abs(axis.X) > 0.9 {
		reference = core.NewVec3(0, 0, 1)
	}
	tangent := reference.Subtract(axis.Multiply(reference.Dot(axis))).Normalize()

	return &Cylinder{
		BaseCenter: baseCenter,
		TopCenter:  topCenter,
		Radius:     radius,
		Capped:     capped,
		Material:   mat,
		axis:       axis,
		height:     axisVector.Length(),
		tangent:    tangent,
		bitangent:  axis.Cross(tangent),
	}
}

// NewAxisCylinder creates a capped cylinder standing on the origin along +Y
func NewAxisCylinder(radius, height float64, mat material.Material) *Cylinder {
	return NewCylinder(core.NewVec3(0, 0, 0), core.NewVec3(0, height, 0), radius, true, mat)
}

// Height returns the distance between the base and top centers
func (c *Cylinder) Height() float64 {
	return c.height
}

// BoundingBox returns the axis-aligned bounding box for this cylinder
func (c *Cylinder) BoundingBox() (core.AABB, bool) {
	if c.height == 0 {
		return core.AABB{}, false
	}

	// A disk of radius r around unit axis a extends r·sqrt(1 - a_i²) along axis i
	extent := core.NewVec3(
		c.Radius*math.Sqrt(math.Max(0, 1-c.axis.X*c.axis.X)),
		c.Radius*math.Sqrt(math.Max(0, 1-c.axis.Y*c.axis.Y)),
		c.Radius*math.Sqrt(math.Max(0, 1-c.axis.Z*c.axis.Z)),
	)

	box := core.NewAABBFromPoints(
		c.BaseCenter.Subtract(extent), c.BaseCenter.Add(extent),
		c.TopCenter.Subtract(extent), c.TopCenter.Add(extent),
	)
	return box.Pad(boxPadding), true
}

// Hit tests if a ray intersects the side of the cylinder or, when capped, one of its caps
func (c *Cylinder) Hit(ray core.Ray, tMin, tMax float64, rec *material.HitRecord) bool {
	const epsilon = 1e-8

	if c.height == 0 {
		return false
	}

	closest := tMax
	found := false
	var point, outwardNormal core.Vec3
	var u, v float64

	// Vector from base center to ray origin
	delta := ray.Origin.Subtract(c.BaseCenter)
	dv := ray.Direction.Dot(c.axis)
	deltaV := delta.Dot(c.axis)

	// Side: |(Δ + tD) - ((Δ + tD)·V̂)V̂|² = r²
	a := ray.Direction.LengthSquared() - dv*dv
	if math.Abs(a) >= epsilon {
		b := 2.0 * (delta.Dot(ray.Direction) - deltaV*dv)
		cc := delta.LengthSquared() - deltaV*deltaV - c.Radius*c.Radius

		discriminant := b*b - 4*a*cc
		if discriminant >= 0 {
			sqrtD := math.Sqrt(discriminant)
			for _, t := range [2]float64{(-b - sqrtD) / (2 * a), (-b + sqrtD) / (2 * a)} {
				if t < tMin || t > closest {
					continue
				}
				p := ray.At(t)
				h := p.Subtract(c.BaseCenter).Dot(c.axis)
				if h < 0 || h > c.height {
					continue
				}
				radial := p.Subtract(c.BaseCenter.Add(c.axis.Multiply(h))).Multiply(1.0 / c.Radius)

				closest, found = t, true
				point, outwardNormal = p, radial
				u = c.angle(radial) / (2 * math.Pi)
				v = h / c.height
				break
			}
		}
	}

	// Caps are skipped for rays parallel to their plane
	if c.Capped && math.Abs(dv) >= epsilon {
		caps := [2]struct {
			center core.Vec3
			normal core.Vec3
		}{
			{c.BaseCenter, c.axis.Negate()},
			{c.TopCenter, c.axis},
		}
		for _, cp := range caps {
			t := cp.center.Subtract(ray.Origin).Dot(c.axis) / dv
			if t < tMin || t > closest {
				continue
			}
			p := ray.At(t)
			offset := p.Subtract(cp.center)
			if offset.LengthSquared() > c.Radius*c.Radius {
				continue
			}

			closest, found = t, true
			point, outwardNormal = p, cp.normal
			u = 0.5 + offset.Dot(c.tangent)/(2*c.Radius)
			v = 0.5 + offset.Dot(c.bitangent)/(2*c.Radius)
		}
	}

	if !found {
		return false
	}

	rec.T = closest
	rec.Point = point
	rec.U, rec.V = u, v
	rec.SetFaceNormal(ray, outwardNormal)
	rec.Material = c.Material

	return true
}

// angle returns the angle of a radial direction around the axis in [0, 2π)
func (c *Cylinder) angle(radial core.Vec3) float64 {
	phi := math.Atan2(radial.Dot(c.bitangent), radial.Dot(c.tangent))
	if phi < 0 {
		phi += 2 * math.Pi
	}
	return phi
}
