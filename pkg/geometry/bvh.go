package geometry

import (
	"fmt"
	"sort"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// bvhNode is either an internal node with two child node indices or a leaf
// covering shapes[first : first+count]
type bvhNode struct {
	box   core.AABB
	left  int32 // -1 for leaves
	right int32
	first int32
	count int32
}

func (n *bvhNode) isLeaf() bool {
	return n.left < 0
}

// BVH is a Bounding Volume Hierarchy stored as an arena of shapes and a flat
// slice of nodes addressed by index. It is immutable once built and safe for
// concurrent Hit calls.
type BVH struct {
	shapes []Shape
	nodes  []bvhNode
	root   int32
}

// NewBVH builds a BVH over shapes. The slice is taken over and reordered in
// place; callers must not modify it afterwards. Every shape must report a
// bounding box, otherwise the build fails with core.ErrNoBoundingBox.
// An empty slice yields a BVH that never hits.
func NewBVH(shapes []Shape) (*BVH, error) {
	bvh := &BVH{shapes: shapes}
	if len(shapes) == 0 {
		return bvh, nil
	}

	boxes := make([]core.AABB, len(shapes))
	for i, shape := range shapes {
		box, ok := shape.BoundingBox()
		if !ok {
			return nil, fmt.Errorf("building bvh: shape %d (%s): %w", i, shape, core.ErrNoBoundingBox)
		}
		boxes[i] = box
	}

	bvh.nodes = make([]bvhNode, 0, 2*len(shapes)-1)
	bvh.root = bvh.build(boxes, 0, len(shapes))
	return bvh, nil
}

// build partitions shapes[start:end] and returns the index of the subtree root
func (bvh *BVH) build(boxes []core.AABB, start, end int) int32 {
	n := end - start
	if n == 1 {
		return bvh.addLeaf(boxes, start)
	}

	spanBox := core.EmptyAABB()
	for i := start; i < end; i++ {
		spanBox = core.Enclose(spanBox, boxes[i])
	}
	axis := spanBox.LongestAxis()

	var left, right int32
	if n == 2 {
		if boxes[start+1].Min.Axis(axis) < boxes[start].Min.Axis(axis) {
			bvh.shapes[start], bvh.shapes[start+1] = bvh.shapes[start+1], bvh.shapes[start]
			boxes[start], boxes[start+1] = boxes[start+1], boxes[start]
		}
		left = bvh.addLeaf(boxes, start)
		right = bvh.addLeaf(boxes, start+1)
	} else {
		sort.Stable(spanSorter{
			shapes: bvh.shapes[start:end],
			boxes:  boxes[start:end],
			axis:   axis,
		})
		mid := start + n/2
		left = bvh.build(boxes, start, mid)
		right = bvh.build(boxes, mid, end)
	}

	bvh.nodes = append(bvh.nodes, bvhNode{
		box:   core.Enclose(bvh.nodes[left].box, bvh.nodes[right].box),
		left:  left,
		right: right,
	})
	return int32(len(bvh.nodes) - 1)
}

func (bvh *BVH) addLeaf(boxes []core.AABB, index int) int32 {
	bvh.nodes = append(bvh.nodes, bvhNode{
		box:   boxes[index],
		left:  -1,
		right: -1,
		first: int32(index),
		count: 1,
	})
	return int32(len(bvh.nodes) - 1)
}

// spanSorter orders a span of shapes by the minimum of their boxes along axis,
// keeping the parallel boxes slice in step
type spanSorter struct {
	shapes []Shape
	boxes  []core.AABB
	axis   int
}

func (s spanSorter) Len() int { return len(s.shapes) }

func (s spanSorter) Less(i, j int) bool {
	return s.boxes[i].Min.Axis(s.axis) < s.boxes[j].Min.Axis(s.axis)
}

func (s spanSorter) Swap(i, j int) {
	s.shapes[i], s.shapes[j] = s.shapes[j], s.shapes[i]
	s.boxes[i], s.boxes[j] = s.boxes[j], s.boxes[i]
}

// Hit finds the nearest intersection in [tMin, tMax]
func (bvh *BVH) Hit(ray core.Ray, tMin, tMax float64, rec *material.HitRecord) bool {
	if len(bvh.nodes) == 0 {
		return false
	}
	return bvh.hitNode(bvh.root, ray, tMin, tMax, rec)
}

func (bvh *BVH) hitNode(index int32, ray core.Ray, tMin, tMax float64, rec *material.HitRecord) bool {
	node := &bvh.nodes[index]
	if !node.box.Hit(ray, tMin, tMax) {
		return false
	}

	if node.isLeaf() {
		hitAnything := false
		closestSoFar := tMax
		for i := node.first; i < node.first+node.count; i++ {
			if bvh.shapes[i].Hit(ray, tMin, closestSoFar, rec) {
				hitAnything = true
				closestSoFar = rec.T
			}
		}
		return hitAnything
	}

	// A right-subtree hit only counts if it is closer than the left one
	hitLeft := bvh.hitNode(node.left, ray, tMin, tMax, rec)
	if hitLeft {
		tMax = rec.T
	}
	hitRight := bvh.hitNode(node.right, ray, tMin, tMax, rec)

	return hitLeft || hitRight
}

// BoundingBox returns the box of the root node; an empty BVH has none
func (bvh *BVH) BoundingBox() (core.AABB, bool) {
	if len(bvh.nodes) == 0 {
		return core.AABB{}, false
	}
	return bvh.nodes[bvh.root].box, true
}

// PrimitiveCount returns the number of primitives below this BVH, counting
// through nested BVHs
func (bvh *BVH) PrimitiveCount() int {
	count := 0
	for _, shape := range bvh.shapes {
		count += shape.PrimitiveCount()
	}
	return count
}

// BVHStats describes the shape of a built tree
type BVHStats struct {
	Nodes        int
	Leaves       int
	MaxDepth     int
	AvgLeafDepth float64
	Primitives   int
}

// Stats walks the tree and returns its statistics
func (bvh *BVH) Stats() BVHStats {
	stats := BVHStats{Primitives: bvh.PrimitiveCount()}
	if len(bvh.nodes) == 0 {
		return stats
	}

	depthSum := 0
	var walk func(index int32, depth int)
	walk = func(index int32, depth int) {
		node := &bvh.nodes[index]
		stats.Nodes++
		stats.MaxDepth = max(stats.MaxDepth, depth)
		if node.isLeaf() {
			stats.Leaves++
			depthSum += depth
			return
		}
		walk(node.left, depth+1)
		walk(node.right, depth+1)
	}
	walk(bvh.root, 0)

	stats.AvgLeafDepth = float64(depthSum) / float64(stats.Leaves)
	return stats
}
