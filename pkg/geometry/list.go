package geometry

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// List tests every shape in turn. It is the brute-force counterpart of BVH.
type List []Shape

// Hit returns the nearest hit among all shapes
func (l List) Hit(ray core.Ray, tMin, tMax float64, rec *material.HitRecord) bool {
	hitAnything := false
	closestSoFar := tMax

	for _, shape := range l {
		if shape.Hit(ray, tMin, closestSoFar, rec) {
			hitAnything = true
			closestSoFar = rec.T
		}
	}

	return hitAnything
}

// BoundingBox encloses every shape; it fails if the list is empty or any shape has no box
func (l List) BoundingBox() (core.AABB, bool) {
	if len(l) == 0 {
		return core.AABB{}, false
	}
	box := core.EmptyAABB()
	for _, shape := range l {
		b, ok := shape.BoundingBox()
		if !ok {
			return core.AABB{}, false
		}
		box = core.Enclose(box, b)
	}
	return box, true
}
