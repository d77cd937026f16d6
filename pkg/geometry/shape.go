package geometry

import (
	"fmt"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// Hittable is anything a ray can be tested against: a Shape, a BVH or a List
type Hittable interface {
	Hit(ray core.Ray, tMin, tMax float64, rec *material.HitRecord) bool
	BoundingBox() (core.AABB, bool)
}

// Kind identifies the variant held by a Shape
type Kind uint8

const (
	KindInvalid Kind = iota
	KindSphere
	KindMovingSphere
	KindTriangle
	KindMeshTriangle
	KindCylinder
	KindBVH
)

var kindNames = [...]string{
	KindInvalid:      "invalid",
	KindSphere:       "sphere",
	KindMovingSphere: "moving_sphere",
	KindTriangle:     "triangle",
	KindMeshTriangle: "mesh_triangle",
	KindCylinder:     "cylinder",
	KindBVH:          "bvh",
}

// String returns the snake_case name of the kind
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// Shape is a closed union over every primitive type and BVH subtrees.
// Build it with the *Shape constructors; the zero Shape never hits and has no
// bounding box, so a BVH refuses to be built over it.
type Shape struct {
	kind         Kind
	sphere       *Sphere
	movingSphere *MovingSphere
	triangle     *Triangle
	meshTriangle *MeshTriangle
	cylinder     *Cylinder
	bvh          *BVH
}

// SphereShape wraps a sphere
func SphereShape(s *Sphere) Shape { return Shape{kind: KindSphere, sphere: s} }

// MovingSphereShape wraps a moving sphere
func MovingSphereShape(s *MovingSphere) Shape { return Shape{kind: KindMovingSphere, movingSphere: s} }

// TriangleShape wraps a flat triangle
func TriangleShape(t *Triangle) Shape { return Shape{kind: KindTriangle, triangle: t} }

// MeshTriangleShape wraps a triangle with vertex normals
func MeshTriangleShape(t *MeshTriangle) Shape { return Shape{kind: KindMeshTriangle, meshTriangle: t} }

// CylinderShape wraps a cylinder
func CylinderShape(c *Cylinder) Shape { return Shape{kind: KindCylinder, cylinder: c} }

// BVHShape wraps a BVH so it can be nested inside another BVH
func BVHShape(b *BVH) Shape { return Shape{kind: KindBVH, bvh: b} }

// Kind returns the variant held by the shape
func (s Shape) Kind() Kind {
	return s.kind
}

// String describes the shape for logs and errors
func (s Shape) String() string {
	return s.kind.String()
}

// Hit dispatches the ray test to the wrapped variant
func (s Shape) Hit(ray core.Ray, tMin, tMax float64, rec *material.HitRecord) bool {
	switch s.kind {
	case KindSphere:
		return s.sphere.Hit(ray, tMin, tMax, rec)
	case KindMovingSphere:
		return s.movingSphere.Hit(ray, tMin, tMax, rec)
	case KindTriangle:
		return s.triangle.Hit(ray, tMin, tMax, rec)
	case KindMeshTriangle:
		return s.meshTriangle.Hit(ray, tMin, tMax, rec)
	case KindCylinder:
		return s.cylinder.Hit(ray, tMin, tMax, rec)
	case KindBVH:
		return s.bvh.Hit(ray, tMin, tMax, rec)
	default:
		return false
	}
}

// BoundingBox dispatches to the wrapped variant. It reports false for the
// zero Shape and for variants that bound no volume.
func (s Shape) BoundingBox() (core.AABB, bool) {
	switch s.kind {
	case KindSphere:
		return s.sphere.BoundingBox()
	case KindMovingSphere:
		return s.movingSphere.BoundingBox()
	case KindTriangle:
		return s.triangle.BoundingBox()
	case KindMeshTriangle:
		return s.meshTriangle.BoundingBox()
	case KindCylinder:
		return s.cylinder.BoundingBox()
	case KindBVH:
		return s.bvh.BoundingBox()
	default:
		return core.AABB{}, false
	}
}

// PrimitiveCount returns 1 for a primitive and the number of primitives below a BVH
func (s Shape) PrimitiveCount() int {
	switch s.kind {
	case KindInvalid:
		return 0
	case KindBVH:
		return s.bvh.PrimitiveCount()
	default:
		return 1
	}
}
