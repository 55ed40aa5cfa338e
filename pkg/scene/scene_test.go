package scene

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-octree-pathtracer/pkg/core"
	"github.com/df07/go-octree-pathtracer/pkg/geometry"
	"github.com/df07/go-octree-pathtracer/pkg/material"
)

func TestScene_TraceBeforeBuildPanics(t *testing.T) {
	s := New(geometry.NewSphere(core.Vec3{}, 1, nil))
	assert.Panics(t, func() {
		s.Trace(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, -1))
	})

	s.Build()
	assert.True(t, s.IsBuilt())
	assert.NotPanics(t, func() {
		s.Trace(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, -1))
	})

	s.Add(geometry.NewSphere(core.NewVec3(3, 0, 0), 1, nil))
	assert.False(t, s.IsBuilt(), "Add should invalidate the build")
}

func TestScene_TraceBoundedAndUnbounded(t *testing.T) {
	gray := material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))
	red := material.NewLambertian(core.NewVec3(0.9, 0.1, 0.1))

	ground := geometry.NewPlane(core.Vec3{}, core.NewVec3(0, 1, 0), gray)
	ball := geometry.NewSphere(core.NewVec3(0, 2, 0), 1, red)
	s := New(ground, ball)
	s.Build()

	tests := []struct {
		name      string
		origin    core.Vec3
		direction core.Vec3
		valid     bool
		distance  float64
		material  material.Material
	}{
		{"Sphere in front of plane", core.NewVec3(0, 10, 0), core.NewVec3(0, -1, 0), true, 7, red},
		{"Plane only", core.NewVec3(5, 10, 0), core.NewVec3(0, -1, 0), true, 10, gray},
		{"Plane seen from below", core.NewVec3(5, -1, 0), core.NewVec3(0, 1, 0), false, 0, nil},
		{"Everything behind", core.NewVec3(0, 10, 0), core.NewVec3(0, 1, 0), false, 0, nil},
		{"Inside the sphere", core.NewVec3(0, 2, 0), core.NewVec3(0, -1, 0), true, 1, red},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit := s.Trace(tt.origin, tt.direction)
			require.Equal(t, tt.valid, hit.Valid)
			if !tt.valid {
				return
			}
			assert.InDelta(t, tt.distance, hit.Distance, 1e-9)
			assert.Same(t, tt.material, hit.Surface.Material)

			want := tt.origin.Add(tt.direction.Multiply(tt.distance))
			assert.InDelta(t, 0, hit.Point.Subtract(want).Length(), 1e-9)
		})
	}
}

func TestScene_MatchesBruteForce(t *testing.T) {
	sampler := core.NewRandomSampler(5, 1)

	var objects []geometry.Object
	for i := 0; i < 120; i++ {
		center := sampler.Get3D().Multiply(20).Subtract(core.Splat(10))
		objects = append(objects, geometry.NewSphere(center, 0.2+sampler.Get1D(), nil))
	}
	objects = append(objects, geometry.NewPlane(core.NewVec3(0, -12, 0), core.NewVec3(0, 1, 0), nil))

	s := New(objects...)
	s.Build()

	for i := 0; i < 500; i++ {
		origin := sampler.Get3D().Multiply(30).Subtract(core.Splat(15))
		direction := core.SampleOnUnitSphere(sampler.Get2D())

		best, found := math.Inf(1), false
		for _, obj := range objects {
			if d, _, ok := obj.Intersect(origin, direction); ok && d >= 0 && d < best {
				best, found = d, true
			}
		}

		hit := s.Trace(origin, direction)
		require.Equal(t, found, hit.Valid, "ray %d", i)
		if found {
			assert.InDelta(t, best, hit.Distance, 1e-9, "ray %d", i)
		}
	}
}

func TestScene_EmissionProfiles(t *testing.T) {
	light := material.NewEmissive(core.NewVec3(4, 4, 4))
	diffuse := material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))

	s := New(
		geometry.NewSphere(core.NewVec3(0, 5, 0), 1, light),
		geometry.NewQuad(core.NewVec3(-1, 4, -1), core.NewVec3(2, 0, 0), core.NewVec3(0, 0, 2), light),
		geometry.NewSphere(core.Vec3{}, 1, diffuse),
		geometry.NewPlane(core.Vec3{}, core.NewVec3(0, 1, 0), diffuse),
	)
	assert.Empty(t, s.EmissionProfiles(), "profiles are collected by Build")

	s.Build()
	assert.Len(t, s.EmissionProfiles(), 2)

	stats := s.Stats()
	assert.Equal(t, 4, stats.Objects)
	assert.Equal(t, 3, stats.Bounded)
	assert.Equal(t, 1, stats.Unbounded)
	assert.Equal(t, 2, stats.Emitters)
	assert.Equal(t, 3, stats.BVH.Leaves)
}

func TestPresets(t *testing.T) {
	names := PresetNames()
	assert.Equal(t, []string{"cornell", "default", "glass", "spheregrid"}, names)

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			setup, err := NewPreset(name)
			require.NoError(t, err)
			require.NotNil(t, setup.Scene)

			assert.Greater(t, setup.FOV, 0.0)
			assert.Greater(t, setup.Width, 0)
			assert.Greater(t, setup.Height, 0)
			assert.InDelta(t, 1.0, setup.Direction().Length(), 1e-9)
			assert.Greater(t, setup.Focus(), 0.0)

			setup.Scene.Build()
			assert.NotEmpty(t, setup.Scene.EmissionProfiles(), "every preset has a light")

			hit := setup.Scene.Trace(setup.Eye, setup.Direction())
			assert.True(t, hit.Valid, "the view direction should hit something")
		})
	}

	_, err := NewPreset("missing")
	assert.Error(t, err)
}

func TestPrismMesh(t *testing.T) {
	prism := NewPrismMesh(6, 1, 3, material.NewDielectric(1.5))
	assert.Len(t, prism.Triads, 24)

	box := prism.BoundingBox()
	assert.InDelta(t, 0, box.Min.Y, 1e-5)
	assert.InDelta(t, 3, box.Max.Y, 1e-5)

	// Straight down through the cap and straight up from below
	d, _, ok := prism.Intersect(core.NewVec3(0.1, 10, 0.1), core.NewVec3(0, -1, 0))
	require.True(t, ok)
	assert.InDelta(t, 7, d, 1e-9)

	d, _, ok = prism.Intersect(core.NewVec3(0.1, -1, 0.1), core.NewVec3(0, 1, 0))
	require.True(t, ok)
	assert.InDelta(t, 1, d, 1e-9)
}
