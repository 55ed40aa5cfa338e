// Package accel provides the spatial acceleration structures used to answer
// nearest-hit ray queries: a construction-time octree and the binary BVH
// that is derived from it.
package accel

import (
	"fmt"

	"github.com/df07/go-octree-pathtracer/pkg/core"
)

// BoxFunc returns the bounding box of an object stored in a hierarchy
type BoxFunc[T any] func(T) core.AABB

// MaxOctreeDepth bounds subdivision. A full leaf at this depth keeps
// accepting objects, which happens when many objects share a box center.
const MaxOctreeDepth = 24

// OctreeNode is either a leaf holding objects or an internal node with
// exactly eight children partitioning its extent about the center.
type OctreeNode[T any] struct {
	Extent   core.AABB
	Children *[8]*OctreeNode[T] // nil for leaves
	Objects  []T
	depth    int
}

// IsLeaf reports whether the node stores objects directly
func (n *OctreeNode[T]) IsLeaf() bool {
	return n.Children == nil
}

// Octree partitions objects by the center of their bounding box
type Octree[T any] struct {
	root     *OctreeNode[T]
	capacity int
	box      BoxFunc[T]
	count    int
}

// NewOctree creates an empty octree over the given extent
func NewOctree[T any](capacity int, extent core.AABB, box BoxFunc[T]) *Octree[T] {
	if capacity < 1 {
		panic(fmt.Sprintf("octree capacity must be positive, got %d", capacity))
	}
	return &Octree[T]{
		root:     &OctreeNode[T]{Extent: extent},
		capacity: capacity,
		box:      box,
	}
}

// Root returns the root node
func (o *Octree[T]) Root() *OctreeNode[T] {
	return o.root
}

// Count returns the number of stored objects
func (o *Octree[T]) Count() int {
	return o.count
}

// Insert stores an object in the leaf containing its bounding box center.
// Inserting an object whose center lies outside the root extent panics.
func (o *Octree[T]) Insert(obj T) {
	center := o.box(obj).Center()
	if !o.root.Extent.IsInside(center) {
		panic(fmt.Sprintf("octree insert: center %v outside extent %v", center, o.root.Extent))
	}

	node := o.root
	for {
		if node.IsLeaf() {
			if len(node.Objects) < o.capacity || node.depth >= MaxOctreeDepth {
				node.Objects = append(node.Objects, obj)
				o.count++
				return
			}
			o.split(node)
		}
		node = childContaining(node, center)
	}
}

// split turns a full leaf into an internal node and redistributes its objects.
// The children start empty so the redistributed objects always fit.
func (o *Octree[T]) split(node *OctreeNode[T]) {
	center := node.Extent.Center()
	corners := octantCorners(node.Extent)

	var children [8]*OctreeNode[T]
	for i, corner := range corners {
		children[i] = &OctreeNode[T]{Extent: core.NewAABB(center, corner), depth: node.depth + 1}
	}

	objects := node.Objects
	node.Objects = nil
	node.Children = &children

	for _, obj := range objects {
		child := childContaining(node, o.box(obj).Center())
		child.Objects = append(child.Objects, obj)
	}
}

// childContaining returns the first child, in octant order, whose extent holds p
func childContaining[T any](node *OctreeNode[T], p core.Vec3) *OctreeNode[T] {
	for _, child := range node.Children {
		if child.Extent.IsInside(p) {
			return child
		}
	}
	panic(fmt.Sprintf("octree: no octant of %v contains %v", node.Extent, p))
}

// octantCorners lists the box corners in octant order: the bottom ring
// (y=min) then the top ring (y=max), each walked around the vertical axis.
func octantCorners(box core.AABB) [8]core.Vec3 {
	lo, hi := box.Min, box.Max
	return [8]core.Vec3{
		{X: lo.X, Y: lo.Y, Z: lo.Z},
		{X: hi.X, Y: lo.Y, Z: lo.Z},
		{X: hi.X, Y: lo.Y, Z: hi.Z},
		{X: lo.X, Y: lo.Y, Z: hi.Z},
		{X: lo.X, Y: hi.Y, Z: hi.Z},
		{X: hi.X, Y: hi.Y, Z: hi.Z},
		{X: hi.X, Y: hi.Y, Z: lo.Z},
		{X: lo.X, Y: hi.Y, Z: lo.Z},
	}
}

// Traverse visits every stored object exactly once. Order is unspecified.
func (o *Octree[T]) Traverse(fn func(T)) {
	stack := []*OctreeNode[T]{o.root}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if node.IsLeaf() {
			for _, obj := range node.Objects {
				fn(obj)
			}
			continue
		}
		for _, child := range node.Children {
			stack = append(stack, child)
		}
	}
}
