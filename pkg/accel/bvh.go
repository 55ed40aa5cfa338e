package accel

import (
	"github.com/df07/go-octree-pathtracer/pkg/core"
)

// HitFunc intersects a ray with one object and reports a result on hit
type HitFunc[T, R any] func(obj T, origin, direction core.Vec3) (R, bool)

// DistanceFunc extracts the ray distance from a hit result
type DistanceFunc[R any] func(R) float64

// BVHNode is a node of a strictly binary hierarchy. Leaves hold exactly one
// object; internal nodes hold exactly two children.
type BVHNode[T any] struct {
	Extent core.AABB
	Left   *BVHNode[T]
	Right  *BVHNode[T]
	Object T
}

// IsLeaf reports whether the node holds an object
func (n *BVHNode[T]) IsLeaf() bool {
	return n.Left == nil
}

// BVH is a bounding volume hierarchy over objects of type T. It is built
// once and is read-only afterwards, so concurrent queries are safe.
type BVH[T any] struct {
	box   BoxFunc[T]
	root  *BVHNode[T]
	built bool
	size  int
}

// NewBVH creates an unbuilt hierarchy using box to bound its objects
func NewBVH[T any](box BoxFunc[T]) *BVH[T] {
	return &BVH[T]{box: box}
}

// IsBuilt reports whether Build has completed
func (b *BVH[T]) IsBuilt() bool {
	return b.built
}

// Len returns the number of objects in the hierarchy
func (b *BVH[T]) Len() int {
	return b.size
}

// Root returns the root node, nil for an empty hierarchy
func (b *BVH[T]) Root() *BVHNode[T] {
	return b.root
}

// Build constructs the hierarchy from objects, replacing any previous tree.
// Objects are first sorted into an octree with leaf capacity 2, which is
// then converted bottom-up, grouping siblings pairwise by list midpoint.
// TODO: a SAH split of the sibling list would give tighter trees for uneven scenes.
func (b *BVH[T]) Build(objects []T) {
	if len(objects) == 0 {
		b.root, b.size, b.built = nil, 0, true
		return
	}

	extent := b.box(objects[0])
	for _, obj := range objects[1:] {
		extent = extent.Union(b.box(obj))
	}

	octree := NewOctree(2, extent, b.box)
	for _, obj := range objects {
		octree.Insert(obj)
	}

	root := b.convert(octree.Root())
	b.root, b.size, b.built = root, len(objects), true
}

// convert maps an octree subtree to BVH nodes, returning nil when it is empty
func (b *BVH[T]) convert(node *OctreeNode[T]) *BVHNode[T] {
	var nodes []*BVHNode[T]
	if node.IsLeaf() {
		for _, obj := range node.Objects {
			nodes = append(nodes, &BVHNode[T]{Extent: b.box(obj), Object: obj})
		}
	} else {
		for _, child := range node.Children {
			if converted := b.convert(child); converted != nil {
				nodes = append(nodes, converted)
			}
		}
	}

	if len(nodes) == 0 {
		return nil
	}
	return group(nodes)
}

// group joins nodes into one subtree by recursive bisection of the list
func group[T any](nodes []*BVHNode[T]) *BVHNode[T] {
	if len(nodes) == 1 {
		return nodes[0]
	}

	mid := len(nodes) / 2
	left := group(nodes[:mid])
	right := group(nodes[mid:])
	return &BVHNode[T]{
		Extent: left.Extent.Union(right.Extent),
		Left:   left,
		Right:  right,
	}
}

// Intersect returns the nearest hit among the objects of b. A node is
// skipped when the ray neither starts inside its extent nor enters it.
// Both children of an internal node are always queried and the smaller
// distance wins, the left child on ties. Querying an unbuilt BVH panics.
func Intersect[T, R any](b *BVH[T], origin, direction core.Vec3, hit HitFunc[T, R], distance DistanceFunc[R]) (R, bool) {
	if !b.built {
		panic("bvh: Intersect called before Build")
	}
	if b.root == nil {
		var none R
		return none, false
	}
	return intersectNode(b.root, origin, direction, hit, distance)
}

func intersectNode[T, R any](root *BVHNode[T], origin, direction core.Vec3, hit HitFunc[T, R], distance DistanceFunc[R]) (R, bool) {
	var best R
	found := false

	// left children are popped first, so leaves are visited left to right and
	// the strict comparison keeps the leftmost of equally distant hits
	stack := []*BVHNode[T]{root}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !node.Extent.IsInside(origin) {
			if _, ok := node.Extent.Intersect(origin, direction); !ok {
				continue
			}
		}

		if !node.IsLeaf() {
			stack = append(stack, node.Right, node.Left)
			continue
		}

		if h, ok := hit(node.Object, origin, direction); ok && (!found || distance(h) < distance(best)) {
			best, found = h, true
		}
	}
	return best, found
}

// BVHStats summarizes the shape of a built hierarchy
type BVHStats struct {
	Nodes    int
	Leaves   int
	MaxDepth int
}

// Stats walks the hierarchy and counts its nodes
func (b *BVH[T]) Stats() BVHStats {
	var stats BVHStats
	if b.root == nil {
		return stats
	}

	type entry struct {
		node  *BVHNode[T]
		depth int
	}
	stack := []entry{{b.root, 1}}
	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		stats.Nodes++
		stats.MaxDepth = max(stats.MaxDepth, e.depth)
		if e.node.IsLeaf() {
			stats.Leaves++
			continue
		}
		stack = append(stack, entry{e.node.Left, e.depth + 1}, entry{e.node.Right, e.depth + 1})
	}
	return stats
}
