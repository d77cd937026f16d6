package core

import "errors"

var (
	// ErrNoBoundingBox is returned when an acceleration structure is built
	// over a primitive that cannot report a bounding box.
	ErrNoBoundingBox = errors.New("primitive has no bounding box")

	// ErrInvalidPrimitive is returned by primitive constructors for
	// parameters that describe no surface (zero radius, bad indices).
	ErrInvalidPrimitive = errors.New("invalid primitive")

	// ErrInvalidCamera is returned for camera parameters that cannot span a view.
	ErrInvalidCamera = errors.New("invalid camera")
)
