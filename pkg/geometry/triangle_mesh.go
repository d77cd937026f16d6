package geometry

import (
	"fmt"
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// TriangleMeshOptions contains optional parameters for triangle mesh creation
type TriangleMeshOptions struct {
	Normals     []core.Vec3 // Optional per-vertex normals; enables smooth shading
	Scale       float64     // Uniform scale about the origin; 0 means 1
	Rotation    core.Vec3   // Rotation in radians around X, then Y, then Z
	Translation core.Vec3   // Applied after scale and rotation
}

// NewTriangleMesh creates the triangles described by vertices and face indices
// (each group of 3 indices forms a triangle) and wraps them in their own BVH,
// returned as a single Shape. With per-vertex normals the triangles are
// MeshTriangles, otherwise flat Triangles.
func NewTriangleMesh(vertices []core.Vec3, faces []int, mat material.Material, options *TriangleMeshOptions) (Shape, error) {
	if len(faces) == 0 || len(faces)%3 != 0 {
		return Shape{}, fmt.Errorf("triangle mesh: %d face indices is not a positive multiple of 3: %w",
			len(faces), core.ErrInvalidPrimitive)
	}

	var opts TriangleMeshOptions
	if options != nil {
		opts = *options
	}
	if opts.Normals != nil && len(opts.Normals) != len(vertices) {
		return Shape{}, fmt.Errorf("triangle mesh: %d normals for %d vertices: %w",
			len(opts.Normals), len(vertices), core.ErrInvalidPrimitive)
	}

	positions, normals := transformVertices(vertices, opts)

	triangles := make([]Shape, 0, len(faces)/3)
	for i := 0; i < len(faces); i += 3 {
		i0, i1, i2 := faces[i], faces[i+1], faces[i+2]
		if !validIndex(i0, len(positions)) || !validIndex(i1, len(positions)) || !validIndex(i2, len(positions)) {
			return Shape{}, fmt.Errorf("triangle mesh: face %d references vertex outside [0, %d): %w",
				i/3, len(positions), core.ErrInvalidPrimitive)
		}

		if normals != nil {
			triangles = append(triangles, MeshTriangleShape(NewMeshTriangle(
				positions[i0], positions[i1], positions[i2],
				normals[i0], normals[i1], normals[i2], mat)))
		} else {
			triangles = append(triangles, TriangleShape(NewTriangle(
				positions[i0], positions[i1], positions[i2], mat)))
		}
	}

	bvh, err := NewBVH(triangles)
	if err != nil {
		return Shape{}, fmt.Errorf("triangle mesh: %w", err)
	}
	return BVHShape(bvh), nil
}

func validIndex(i, n int) bool {
	return i >= 0 && i < n
}

// transformVertices applies scale, rotation and translation to positions and
// rotation to normals
func transformVertices(vertices []core.Vec3, opts TriangleMeshOptions) ([]core.Vec3, []core.Vec3) {
	scale := opts.Scale
	if scale == 0 {
		scale = 1
	}

	positions := make([]core.Vec3, len(vertices))
	for i, v := range vertices {
		positions[i] = rotateVertex(v.Multiply(scale), opts.Rotation).Add(opts.Translation)
	}

	if opts.Normals == nil {
		return positions, nil
	}
	normals := make([]core.Vec3, len(opts.Normals))
	for i, n := range opts.Normals {
		normals[i] = rotateVertex(n, opts.Rotation)
	}
	return positions, normals
}

// rotateVertex applies rotation around X, Y, Z axes (in that order)
func rotateVertex(vertex, rotation core.Vec3) core.Vec3 {
	if rotation.X != 0 {
		cos := math.Cos(rotation.X)
		sin := math.Sin(rotation.X)
		y := vertex.Y*cos - vertex.Z*sin
		z := vertex.Y*sin + vertex.Z*cos
		vertex = core.NewVec3(vertex.X, y, z)
	}

	if rotation.Y != 0 {
		cos := math.Cos(rotation.Y)
		sin := math.Sin(rotation.Y)
		x := vertex.X*cos + vertex.Z*sin
		z := -vertex.X*sin + vertex.Z*cos
		vertex = core.NewVec3(x, vertex.Y, z)
	}

	if rotation.Z != 0 {
		cos := math.Cos(rotation.Z)
		sin := math.Sin(rotation.Z)
		x := vertex.X*cos - vertex.Y*sin
		y := vertex.X*sin + vertex.Y*cos
		vertex = core.NewVec3(x, y, vertex.Z)
	}

	return vertex
}
