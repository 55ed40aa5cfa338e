package scene

import (
	"math"

	"github.com/df07/go-octree-pathtracer/pkg/accel"
	"github.com/df07/go-octree-pathtracer/pkg/core"
	"github.com/df07/go-octree-pathtracer/pkg/geometry"
	"github.com/df07/go-octree-pathtracer/pkg/log"
)

var logger = log.New("scene")

// HitResult is the nearest surface found along a ray
type HitResult struct {
	Valid    bool
	Distance float64
	Point    core.Vec3
	Surface  geometry.SurfaceData
}

// Scene contains every object that can be hit by a ray. Bounded objects are
// kept in a BVH, unbounded ones (planes) are tested linearly.
type Scene struct {
	objects   []geometry.Object
	bounded   []geometry.BoundedObject
	unbounded []geometry.Object
	profiles  []geometry.EmissionProfile
	bvh       *accel.BVH[geometry.BoundedObject]
	built     bool
}

// New creates a scene holding the given objects. Build must be called before tracing.
func New(objects ...geometry.Object) *Scene {
	s := &Scene{}
	s.Add(objects...)
	return s
}

// Add appends objects to the scene and invalidates the previous build
func (s *Scene) Add(objects ...geometry.Object) {
	s.objects = append(s.objects, objects...)
	s.built = false
}

// Objects returns every object in insertion order
func (s *Scene) Objects() []geometry.Object {
	return s.objects
}

// IsBuilt reports whether Build has run since the last Add
func (s *Scene) IsBuilt() bool {
	return s.built
}

// Build partitions the objects, rebuilds the BVH over the bounded ones and
// collects the emission profiles of every light.
func (s *Scene) Build() {
	var bounded []geometry.BoundedObject
	var unbounded []geometry.Object
	var profiles []geometry.EmissionProfile

	for _, obj := range s.objects {
		if b, ok := obj.(geometry.BoundedObject); ok {
			bounded = append(bounded, b)
		} else {
			unbounded = append(unbounded, obj)
		}
		if e, ok := obj.(geometry.Emitter); ok {
			profiles = append(profiles, e.EmissionProfiles()...)
		}
	}

	bvh := accel.NewBVH[geometry.BoundedObject](geometry.BoundedObject.BoundingBox)
	bvh.Build(bounded)

	s.bounded, s.unbounded, s.profiles, s.bvh = bounded, unbounded, profiles, bvh
	s.built = true

	stats := bvh.Stats()
	logger.Debugf("built scene: %d bounded, %d unbounded, %d emission profiles", len(bounded), len(unbounded), len(profiles))
	logger.Debugf("scene BVH: %d nodes, %d leaves, depth %d", stats.Nodes, stats.Leaves, stats.MaxDepth)
}

// EmissionProfiles returns the light sampling profiles collected by Build
func (s *Scene) EmissionProfiles() []geometry.EmissionProfile {
	return s.profiles
}

type hit struct {
	distance float64
	surface  geometry.SurfaceData
}

func intersectObject(obj geometry.BoundedObject, origin, direction core.Vec3) (hit, bool) {
	t, surface, ok := obj.Intersect(origin, direction)
	if !ok || t < 0 {
		return hit{}, false
	}
	return hit{distance: t, surface: surface}, true
}

func hitDistance(h hit) float64 {
	return h.distance
}

// Trace returns the nearest hit along the ray. It panics if the scene has not been built.
func (s *Scene) Trace(origin, direction core.Vec3) HitResult {
	if !s.built {
		panic("scene: Trace called before Build")
	}

	nearest, found := accel.Intersect(s.bvh, origin, direction, intersectObject, hitDistance)
	if !found {
		nearest.distance = math.Inf(1)
	}

	for _, obj := range s.unbounded {
		t, surface, ok := obj.Intersect(origin, direction)
		if ok && t >= 0 && t < nearest.distance {
			nearest = hit{distance: t, surface: surface}
			found = true
		}
	}

	if !found {
		return HitResult{}
	}
	return HitResult{
		Valid:    true,
		Distance: nearest.distance,
		Point:    origin.Add(direction.Multiply(nearest.distance)),
		Surface:  nearest.surface,
	}
}

// Stats summarizes the scene contents for diagnostics
type Stats struct {
	Objects   int
	Bounded   int
	Unbounded int
	Triangles int
	Emitters  int
	BVH       accel.BVHStats
}

// Stats counts the objects of a built scene
func (s *Scene) Stats() Stats {
	stats := Stats{
		Objects:   len(s.objects),
		Bounded:   len(s.bounded),
		Unbounded: len(s.unbounded),
		Emitters:  len(s.profiles),
	}
	if s.bvh != nil && s.bvh.IsBuilt() {
		stats.BVH = s.bvh.Stats()
	}
	for _, obj := range s.objects {
		if mesh, ok := obj.(*geometry.Mesh); ok {
			stats.Triangles += len(mesh.Triads)
		}
	}
	return stats
}
