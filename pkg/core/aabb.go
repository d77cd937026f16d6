package core

import "math"

// parallelEpsilon is the fraction of a ray's direction length below which a
// direction component is treated as parallel to a slab
const parallelEpsilon = 1e-8

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min Vec3 // Minimum corner
	Max Vec3 // Maximum corner
}

// NewAABB creates a new AABB from min and max points
func NewAABB(min, max Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// EmptyAABB returns the box that contains nothing. It is the identity for Enclose.
func EmptyAABB() AABB {
	inf := math.Inf(1)
	return AABB{
		Min: NewVec3(inf, inf, inf),
		Max: NewVec3(-inf, -inf, -inf),
	}
}

// NewAABBFromPoints creates an AABB that bounds all given points
func NewAABBFromPoints(points ...Vec3) AABB {
	box := EmptyAABB()
	for _, p := range points {
		box = Enclose(box, NewAABB(p, p))
	}
	return box
}

// Enclose returns the smallest AABB containing both a and b
func Enclose(a, b AABB) AABB {
	return AABB{
		Min: Vec3{
			X: math.Min(a.Min.X, b.Min.X),
			Y: math.Min(a.Min.Y, b.Min.Y),
			Z: math.Min(a.Min.Z, b.Min.Z),
		},
		Max: Vec3{
			X: math.Max(a.Max.X, b.Max.X),
			Y: math.Max(a.Max.Y, b.Max.Y),
			Z: math.Max(a.Max.Z, b.Max.Z),
		},
	}
}

// Union returns an AABB that bounds both this AABB and another
func (aabb AABB) Union(other AABB) AABB {
	return Enclose(aabb, other)
}

// Hit tests if a ray intersects the box within [tMin, tMax] using the slab method.
// A direction component smaller than parallelEpsilon times the direction's
// length puts no parametric bound on that axis; such a ray misses only when its
// origin lies outside the slab.
func (aabb AABB) Hit(ray Ray, tMin, tMax float64) bool {
	parallel := parallelEpsilon * ray.Direction.Length()
	for axis := 0; axis < 3; axis++ {
		lo := aabb.Min.Axis(axis)
		hi := aabb.Max.Axis(axis)
		origin := ray.Origin.Axis(axis)
		direction := ray.Direction.Axis(axis)

		if math.Abs(direction) <= parallel {
			if origin < lo || origin > hi {
				return false
			}
			continue
		}

		invDirection := 1.0 / direction
		t0 := (lo - origin) * invDirection
		t1 := (hi - origin) * invDirection
		if t0 > t1 {
			t0, t1 = t1, t0
		}

		tMin = math.Max(tMin, t0)
		tMax = math.Min(tMax, t1)
		if tMin >= tMax {
			return false
		}
	}

	return true
}

// Contains reports whether other lies entirely inside this box
func (aabb AABB) Contains(other AABB) bool {
	return aabb.Min.X <= other.Min.X && aabb.Min.Y <= other.Min.Y && aabb.Min.Z <= other.Min.Z &&
		aabb.Max.X >= other.Max.X && aabb.Max.Y >= other.Max.Y && aabb.Max.Z >= other.Max.Z
}

// Pad widens every axis thinner than delta to exactly delta, keeping it centered.
// Planar primitives would otherwise produce boxes no ray can enter.
func (aabb AABB) Pad(delta float64) AABB {
	padded := aabb
	size := aabb.Size()
	half := delta / 2
	if size.X < delta {
		padded.Min.X -= half
		padded.Max.X += half
	}
	if size.Y < delta {
		padded.Min.Y -= half
		padded.Max.Y += half
	}
	if size.Z < delta {
		padded.Min.Z -= half
		padded.Max.Z += half
	}
	return padded
}

// Center returns the center point of the AABB
func (aabb AABB) Center() Vec3 {
	return aabb.Min.Add(aabb.Max).Multiply(0.5)
}

// Size returns the size (extent) of the AABB along each axis
func (aabb AABB) Size() Vec3 {
	return aabb.Max.Subtract(aabb.Min)
}

// LongestAxis returns the axis (0=X, 1=Y, 2=Z) with the longest extent.
// Ties resolve toward the lower axis.
func (aabb AABB) LongestAxis() int {
	size := aabb.Size()
	if size.X >= size.Y && size.X >= size.Z {
		return 0
	}
	if size.Y >= size.Z {
		return 1
	}
	return 2
}

// IsValid returns true if this is a valid AABB (min <= max for all axes)
func (aabb AABB) IsValid() bool {
	return aabb.Min.X <= aabb.Max.X &&
		aabb.Min.Y <= aabb.Max.Y &&
		aabb.Min.Z <= aabb.Max.Z
}

// IsEmpty reports whether the box contains no points
func (aabb AABB) IsEmpty() bool {
	return !aabb.IsValid()
}
