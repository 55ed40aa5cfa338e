package accel

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-octree-pathtracer/pkg/core"
)

type testSphere struct {
	id     int
	center core.Vec3
	radius float64
}

func sphereBox(s testSphere) core.AABB {
	r := core.Splat(s.radius)
	return core.NewAABB(s.center.Subtract(r), s.center.Add(r))
}

type testHit struct {
	id       int
	distance float64
}

func hitSphere(s testSphere, origin, direction core.Vec3) (testHit, bool) {
	oc := origin.Subtract(s.center)
	a := direction.Dot(direction)
	b := 2 * oc.Dot(direction)
	c := oc.Dot(oc) - s.radius*s.radius
	disc := b*b - 4*a*c
	if disc < 0 {
		return testHit{}, false
	}
	sq := math.Sqrt(disc)
	t := (-b - sq) / (2 * a)
	if t < 0 {
		t = (-b + sq) / (2 * a)
	}
	if t < 0 {
		return testHit{}, false
	}
	return testHit{id: s.id, distance: t}, true
}

func hitDistance(h testHit) float64 { return h.distance }

func bruteForce(spheres []testSphere, origin, direction core.Vec3) (testHit, bool) {
	var best testHit
	found := false
	for _, s := range spheres {
		if h, ok := hitSphere(s, origin, direction); ok && (!found || h.distance < best.distance) {
			best, found = h, true
		}
	}
	return best, found
}

func randomSpheres(sampler *core.RandomSampler, n int) []testSphere {
	spheres := make([]testSphere, n)
	for i := range spheres {
		p := sampler.Get3D()
		spheres[i] = testSphere{
			id:     i,
			center: core.NewVec3(p.X*20-10, p.Y*20-10, p.Z*20-10),
			radius: 0.1 + sampler.Get1D()*0.9,
		}
	}
	return spheres
}

func TestBVH_MatchesBruteForce(t *testing.T) {
	for _, n := range []int{0, 1, 2, 3, 17, 200} {
		sampler := core.NewRandomSampler(42, uint64(n))
		spheres := randomSpheres(sampler, n)

		bvh := NewBVH(sphereBox)
		bvh.Build(spheres)
		require.True(t, bvh.IsBuilt())
		assert.Equal(t, n, bvh.Len())

		for i := 0; i < 500; i++ {
			o := sampler.Get3D()
			origin := core.NewVec3(o.X*30-15, o.Y*30-15, o.Z*30-15)
			direction := core.SampleOnUnitSphere(sampler.Get2D())

			got, gotOk := Intersect(bvh, origin, direction, hitSphere, hitDistance)
			want, wantOk := bruteForce(spheres, origin, direction)

			require.Equal(t, wantOk, gotOk, "n=%d ray %d hit mismatch", n, i)
			if wantOk {
				assert.InDelta(t, want.distance, got.distance, 1e-9, "n=%d ray %d", n, i)
			}
		}
	}
}

func TestBVH_EmptyAlwaysMisses(t *testing.T) {
	bvh := NewBVH(sphereBox)
	bvh.Build(nil)

	_, ok := Intersect(bvh, core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1), hitSphere, hitDistance)
	assert.False(t, ok)
	assert.Nil(t, bvh.Root())
}

func TestBVH_SingleObject(t *testing.T) {
	bvh := NewBVH(sphereBox)
	bvh.Build([]testSphere{{id: 7, center: core.NewVec3(0, 0, 0), radius: 1}})

	h, ok := Intersect(bvh, core.NewVec3(0, 0, -5), core.NewVec3(0, 0, 1), hitSphere, hitDistance)
	require.True(t, ok)
	assert.Equal(t, 7, h.id)
	assert.InDelta(t, 4.0, h.distance, 1e-12)

	_, ok = Intersect(bvh, core.NewVec3(0, 5, -5), core.NewVec3(0, 0, 1), hitSphere, hitDistance)
	assert.False(t, ok)
}

func TestBVH_OriginInsideObject(t *testing.T) {
	bvh := NewBVH(sphereBox)
	bvh.Build([]testSphere{
		{id: 0, center: core.NewVec3(0, 0, 0), radius: 2},
		{id: 1, center: core.NewVec3(10, 0, 0), radius: 1},
	})

	h, ok := Intersect(bvh, core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), hitSphere, hitDistance)
	require.True(t, ok)
	assert.Equal(t, 0, h.id)
	assert.InDelta(t, 2.0, h.distance, 1e-12)
}

func TestBVH_StructureIsStrictlyBinary(t *testing.T) {
	sampler := core.NewRandomSampler(1, 2)
	spheres := randomSpheres(sampler, 64)

	bvh := NewBVH(sphereBox)
	bvh.Build(spheres)

	stats := bvh.Stats()
	assert.Equal(t, 64, stats.Leaves)
	assert.Equal(t, 2*64-1, stats.Nodes)
}

func TestBVH_CoincidentCenters(t *testing.T) {
	spheres := make([]testSphere, 10)
	for i := range spheres {
		spheres[i] = testSphere{id: i, center: core.NewVec3(1, 1, 1), radius: float64(i+1) * 0.1}
	}

	bvh := NewBVH(sphereBox)
	bvh.Build(spheres)
	assert.Equal(t, 10, bvh.Stats().Leaves)

	// from outside, the largest sphere is hit first
	h, ok := Intersect(bvh, core.NewVec3(1, 1, -5), core.NewVec3(0, 0, 1), hitSphere, hitDistance)
	require.True(t, ok)
	assert.Equal(t, 9, h.id)
}

func TestBVH_RebuildReplacesTree(t *testing.T) {
	bvh := NewBVH(sphereBox)
	bvh.Build([]testSphere{{id: 0, center: core.NewVec3(0, 0, 0), radius: 1}})
	bvh.Build([]testSphere{{id: 1, center: core.NewVec3(0, 0, 3), radius: 1}})

	h, ok := Intersect(bvh, core.NewVec3(0, 0, -5), core.NewVec3(0, 0, 1), hitSphere, hitDistance)
	require.True(t, ok)
	assert.Equal(t, 1, h.id)
	assert.Equal(t, 1, bvh.Len())
}

func TestBVH_UnbuiltPanics(t *testing.T) {
	bvh := NewBVH(sphereBox)
	assert.Panics(t, func() {
		Intersect(bvh, core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1), hitSphere, hitDistance)
	})
}

func TestBVH_TieGoesToLeftChild(t *testing.T) {
	spheres := make([]testSphere, 5)
	for i := range spheres {
		spheres[i] = testSphere{id: i, center: core.NewVec3(float64(i)*0.1, 0, 0), radius: 1}
	}

	bvh := NewBVH(sphereBox)
	bvh.Build(spheres)

	leftmost := bvh.Root()
	require.NotNil(t, leftmost)
	require.False(t, leftmost.IsLeaf())
	for !leftmost.IsLeaf() {
		leftmost = leftmost.Left
	}

	// every object reports the same distance
	sameDistance := func(s testSphere, origin, direction core.Vec3) (testHit, bool) {
		return testHit{id: s.id, distance: 1}, true
	}
	h, ok := Intersect(bvh, core.NewVec3(0, 0, -5), core.NewVec3(0, 0, 1), sameDistance, hitDistance)
	require.True(t, ok)
	assert.Equal(t, leftmost.Object.id, h.id)
}
