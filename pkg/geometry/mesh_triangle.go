package geometry

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// MeshTriangle is a smooth-shaded triangle carrying one normal per vertex.
// The shading normal is interpolated from the vertex normals, while the front
// face is still decided by the geometric face normal.
type MeshTriangle struct {
	V0, V1, V2 core.Vec3
	N0, N1, N2 core.Vec3
	Material   material.Material
	normal     core.Vec3
	bbox       core.AABB
}

// NewMeshTriangle creates a triangle with per-vertex normals
func NewMeshTriangle(v0, v1, v2, n0, n1, n2 core.Vec3, mat material.Material) *MeshTriangle {
	return &MeshTriangle{
		V0:       v0,
		V1:       v1,
		V2:       v2,
		N0:       n0.Normalize(),
		N1:       n1.Normalize(),
		N2:       n2.Normalize(),
		Material: mat,
		normal:   faceNormal(v0, v1, v2),
		bbox:     core.NewAABBFromPoints(v0, v1, v2).Pad(boxPadding),
	}
}

// Hit tests if a ray intersects the triangle and reports the interpolated normal
func (t *MeshTriangle) Hit(ray core.Ray, tMin, tMax float64, rec *material.HitRecord) bool {
	tParam, u, v, ok := intersectTriangle(t.V0, t.V1, t.V2, ray, tMin, tMax)
	if !ok {
		return false
	}

	shading := t.ShadingNormal(u, v)

	rec.T = tParam
	rec.Point = ray.At(tParam)
	rec.U, rec.V = u, v
	rec.FrontFace = ray.Direction.Dot(t.normal) < 0
	if rec.FrontFace {
		rec.Normal = shading
	} else {
		rec.Normal = shading.Negate()
	}
	rec.Material = t.Material

	return true
}

// ShadingNormal interpolates the vertex normals at barycentric (u, v),
// oriented to the same side as the face normal
func (t *MeshTriangle) ShadingNormal(u, v float64) core.Vec3 {
	w := 1 - u - v
	n := t.N0.Multiply(w).Add(t.N1.Multiply(u)).Add(t.N2.Multiply(v)).Normalize()
	if n.NearZero() {
		return t.normal
	}
	if n.Dot(t.normal) < 0 {
		n = n.Negate()
	}
	return n
}

// BoundingBox returns the axis-aligned bounding box for this triangle
func (t *MeshTriangle) BoundingBox() (core.AABB, bool) {
	return t.bbox, true
}
