package geometry

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// boxPadding keeps planar primitives from producing zero-thickness boxes
const boxPadding = 1e-4

// Triangle represents a single flat-shaded triangle defined by three vertices
type Triangle struct {
	V0, V1, V2 core.Vec3         // The three vertices
	Material   material.Material // Material of the triangle
	normal     core.Vec3         // Cached unit face normal
	bbox       core.AABB         // Cached bounding box
}

// NewTriangle creates a new triangle from three vertices.
// The outward side is the one from which V0, V1, V2 appear counter-clockwise.
func NewTriangle(v0, v1, v2 core.Vec3, mat material.Material) *Triangle {
	return &Triangle{
		V0:       v0,
		V1:       v1,
		V2:       v2,
		Material: mat,
		normal:   faceNormal(v0, v1, v2),
		bbox:     core.NewAABBFromPoints(v0, v1, v2).Pad(boxPadding),
	}
}

// Hit tests if a ray intersects with the triangle using the Möller-Trumbore algorithm
func (t *Triangle) Hit(ray core.Ray, tMin, tMax float64, rec *material.HitRecord) bool {
	tParam, u, v, ok := intersectTriangle(t.V0, t.V1, t.V2, ray, tMin, tMax)
	if !ok {
		return false
	}

	rec.T = tParam
	rec.Point = ray.At(tParam)
	rec.U, rec.V = u, v
	rec.SetFaceNormal(ray, t.normal)
	rec.Material = t.Material

	return true
}

// BoundingBox returns the axis-aligned bounding box for this triangle
func (t *Triangle) BoundingBox() (core.AABB, bool) {
	return t.bbox, true
}

// Normal returns the triangle's unit face normal
func (t *Triangle) Normal() core.Vec3 {
	return t.normal
}

func faceNormal(v0, v1, v2 core.Vec3) core.Vec3 {
	return v1.Subtract(v0).Cross(v2.Subtract(v0)).Normalize()
}

// intersectTriangle returns the ray parameter and the barycentric weights of V1 and V2
func intersectTriangle(v0, v1, v2 core.Vec3, ray core.Ray, tMin, tMax float64) (t, u, v float64, ok bool) {
	const epsilon = 1e-8

	edge1 := v1.Subtract(v0)
	edge2 := v2.Subtract(v0)

	h := ray.Direction.Cross(edge2)
	a := edge1.Dot(h)

	// Ray lies in the plane of the triangle, or the triangle has no area
	if a > -epsilon && a < epsilon {
		return 0, 0, 0, false
	}

	f := 1.0 / a
	s := ray.Origin.Subtract(v0)
	u = f * s.Dot(h)
	if u < 0.0 || u > 1.0 {
		return 0, 0, 0, false
	}

	q := s.Cross(edge1)
	v = f * ray.Direction.Dot(q)
	if v < 0.0 || u+v > 1.0 {
		return 0, 0, 0, false
	}

	t = f * edge2.Dot(q)
	if t < tMin || t > tMax {
		return 0, 0, 0, false
	}

	return t, u, v, true
}
