package geometry

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-octree-pathtracer/pkg/core"
	"github.com/df07/go-octree-pathtracer/pkg/material"
)

// unitTriangle lies in z=0 and appears counter-clockwise from +Z
func unitTriangle(cull CullMode) *Mesh {
	vertices := []Vertex{
		{Position: core.NewVec3(0, 0, 0), UV: core.NewVec2(0, 0)},
		{Position: core.NewVec3(1, 0, 0), UV: core.NewVec2(1, 0)},
		{Position: core.NewVec3(0, 1, 0), UV: core.NewVec2(0, 1)},
	}
	faces := []Face{{Indices: [3]int{0, 1, 2}}}
	materials := []material.Material{material.NewLambertian(core.NewVec3(1, 1, 1))}
	return NewMesh(vertices, faces, materials, MeshOptions{Cull: cull, HasUV: true})
}

func TestMesh_CullModes(t *testing.T) {
	fromFront := core.NewVec3(0.2, 0.2, 5) // sees the triangle counter-clockwise
	fromBack := core.NewVec3(0.2, 0.2, -5) // sees it clockwise

	tests := []struct {
		cull          CullMode
		hitFromFront  bool
		hitFromBehind bool
	}{
		{CullNone, true, true},
		{CullFront, true, false},
		{CullBack, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.cull.String(), func(t *testing.T) {
			mesh := unitTriangle(tt.cull)

			_, _, hit := mesh.Intersect(fromFront, core.NewVec3(0, 0, -1))
			assert.Equal(t, tt.hitFromFront, hit, "counter-clockwise side")

			_, _, hit = mesh.Intersect(fromBack, core.NewVec3(0, 0, 1))
			assert.Equal(t, tt.hitFromBehind, hit, "clockwise side")
		})
	}
}

func TestMesh_SurfaceFromBothSides(t *testing.T) {
	mesh := unitTriangle(CullNone)

	for _, origin := range []core.Vec3{core.NewVec3(0.2, 0.3, 5), core.NewVec3(0.2, 0.3, -5)} {
		dir := core.NewVec3(0, 0, -math.Copysign(1, origin.Z))
		dist, surface, hit := mesh.Intersect(origin, dir)
		require.True(t, hit)

		assert.InDelta(t, 5.0, dist, 1e-9)
		assert.Less(t, surface.Normal.Dot(dir), 0.0, "normal should face the ray")
		assert.True(t, surface.HasUV)
		assert.InDelta(t, 0.2, surface.UV.X, 1e-9)
		assert.InDelta(t, 0.3, surface.UV.Y, 1e-9)
	}
}

func TestMesh_InvalidIndicesPanic(t *testing.T) {
	vertices := []Vertex{{}, {Position: core.NewVec3(1, 0, 0)}, {Position: core.NewVec3(0, 1, 0)}}
	materials := []material.Material{nil}

	assert.Panics(t, func() {
		NewMesh(vertices, []Face{{Indices: [3]int{0, 1, 3}}}, materials, MeshOptions{})
	})
	assert.Panics(t, func() {
		NewMesh(vertices, []Face{{Indices: [3]int{0, 1, 2}, Material: 1}}, materials, MeshOptions{})
	})
}

func TestMesh_Transform(t *testing.T) {
	mesh := unitTriangle(CullNone)
	mesh.Transform(mgl64.Translate3D(0, 0, -2))

	dist, _, hit := mesh.Intersect(core.NewVec3(0.2, 0.2, 5), core.NewVec3(0, 0, -1))
	require.True(t, hit)
	assert.InDelta(t, 7.0, dist, 1e-9)
	assert.InDelta(t, -2.0, mesh.BoundingBox().Center().Z, 1e-5)
}

func TestMesh_MatchesBruteForce(t *testing.T) {
	sampler := core.NewRandomSampler(31, 0)

	var triads []Triad
	for i := 0; i < 150; i++ {
		base := sampler.Get3D().Multiply(10)
		var tri Triad
		for k := range tri.Vertices {
			tri.Vertices[k].Position = base.Add(sampler.Get3D())
		}
		triads = append(triads, tri)
	}
	mesh := NewMeshFromTriads(triads, MeshOptions{})

	for i := 0; i < 300; i++ {
		origin := sampler.Get3D().Multiply(14).Subtract(core.Splat(2))
		direction := core.SampleOnUnitSphere(sampler.Get2D())

		best, found := math.Inf(1), false
		for _, tri := range triads {
			p := tri.Vertices
			if d, _, _, ok := intersectTriangle(p[0].Position, p[1].Position, p[2].Position, origin, direction, CullNone); ok && d < best {
				best, found = d, true
			}
		}

		dist, _, hit := mesh.Intersect(origin, direction)
		require.Equal(t, found, hit, "ray %d", i)
		if found {
			assert.InDelta(t, best, dist, 1e-9, "ray %d", i)
		}
	}
}
