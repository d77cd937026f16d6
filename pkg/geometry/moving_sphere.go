package geometry

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// MovingSphere is a sphere whose center moves linearly from Center0 at Time0
// to Center1 at Time1. Rays carry the time at which they sample it.
type MovingSphere struct {
	Center0, Center1 core.Vec3
	Time0, Time1     float64
	Radius           float64
	Material         material.Material
}

// NewMovingSphere creates a new moving sphere
func NewMovingSphere(center0, center1 core.Vec3, time0, time1, radius float64, mat material.Material) *MovingSphere {
	return &MovingSphere{
		Center0:  center0,
		Center1:  center1,
		Time0:    time0,
		Time1:    time1,
		Radius:   radius,
		Material: mat,
	}
}

// CenterAt returns the center at the given time. Times outside the keyframe
// interval hold the nearest keyframe so the sphere never leaves its bounding box.
func (s *MovingSphere) CenterAt(time float64) core.Vec3 {
	span := s.Time1 - s.Time0
	if span == 0 {
		return s.Center0
	}
	f := (time - s.Time0) / span
	return s.Center0.Lerp(s.Center1, max(0, min(1, f)))
}

// Hit tests if a ray intersects the sphere at the ray's time
func (s *MovingSphere) Hit(ray core.Ray, tMin, tMax float64, rec *material.HitRecord) bool {
	return hitSphere(s.CenterAt(ray.Time), s.Radius, s.Material, ray, tMin, tMax, rec)
}

// BoundingBox encloses the sphere at both keyframes
func (s *MovingSphere) BoundingBox() (core.AABB, bool) {
	return core.Enclose(sphereBox(s.Center0, s.Radius), sphereBox(s.Center1, s.Radius)), true
}
