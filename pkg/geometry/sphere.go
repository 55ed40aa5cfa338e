package geometry

import (
	"math"

	"github.com/df07/go-octree-pathtracer/pkg/core"
	"github.com/df07/go-octree-pathtracer/pkg/material"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center   core.Vec3
	Radius   float64
	Material material.Material
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64, material material.Material) *Sphere {
	return &Sphere{
		Center:   center,
		Radius:   radius,
		Material: material,
	}
}

// Intersect returns the nearest non-negative root of the ray-sphere quadratic.
// The roots are computed in the cancellation-free form q/a and c/q.
func (s *Sphere) Intersect(origin, direction core.Vec3) (float64, SurfaceData, bool) {
	oc := origin.Subtract(s.Center)

	a := direction.Dot(direction)
	b := 2 * oc.Dot(direction)
	c := oc.Dot(oc) - s.Radius*s.Radius

	discriminant := b*b - 4*a*c
	if discriminant < 0 {
		return 0, SurfaceData{}, false
	}

	var q float64
	if b > 0 {
		q = -0.5 * (b + math.Sqrt(discriminant))
	} else {
		q = -0.5 * (b - math.Sqrt(discriminant))
	}
	if q == 0 {
		// origin on the surface and moving tangentially
		return 0, SurfaceData{}, false
	}

	t0, t1 := q/a, c/q
	if t0 > t1 {
		t0, t1 = t1, t0
	}
	if t1 < 0 {
		return 0, SurfaceData{}, false
	}

	t := t0
	if t < 0 {
		t = t1
	}

	point := origin.Add(direction.Multiply(t))
	normal := point.Subtract(s.Center).Multiply(1.0 / s.Radius)

	return t, SurfaceData{
		Normal:   normal,
		UV:       sphereUV(normal),
		HasUV:    true,
		Material: s.Material,
	}, true
}

// sphereUV maps a unit outward normal to longitude/latitude coordinates
func sphereUV(n core.Vec3) core.Vec2 {
	u := (math.Atan2(n.Z, n.X)/math.Pi + 1) / 2
	v := math.Acos(math.Max(-1, math.Min(1, n.Y))) / math.Pi
	return core.NewVec2(u, v)
}

// BoundingBox returns the axis-aligned bounding box for this sphere
func (s *Sphere) BoundingBox() core.AABB {
	radius := core.Splat(s.Radius)
	return core.NewAABB(s.Center.Subtract(radius), s.Center.Add(radius))
}

// EmissionProfiles returns a cone sampler when the sphere is a light
func (s *Sphere) EmissionProfiles() []EmissionProfile {
	if !material.IsEmissive(s.Material) {
		return nil
	}
	return []EmissionProfile{&sphereEmission{sphere: s}}
}

// sphereEmission samples the cone of directions subtended by a sphere
type sphereEmission struct {
	sphere *Sphere
}

// cone returns the axis and half-angle cosine of the visible cap. ok is
// false when origin is inside the sphere.
func (e *sphereEmission) cone(origin core.Vec3) (core.Vec3, float64, bool) {
	toCenter := e.sphere.Center.Subtract(origin)
	dist2 := toCenter.LengthSquared()
	r2 := e.sphere.Radius * e.sphere.Radius
	if dist2 <= r2 {
		return core.Vec3{}, 0, false
	}

	sin2ThetaMax := r2 / dist2
	cosThetaMax := math.Sqrt(math.Max(0, 1-sin2ThetaMax))
	return toCenter.Normalize(), cosThetaMax, true
}

// Sample draws a direction uniformly inside the cone toward the sphere
func (e *sphereEmission) Sample(sampler core.Sampler, origin core.Vec3) (EmissionSample, bool) {
	axis, cosThetaMax, ok := e.cone(origin)
	if !ok {
		return EmissionSample{}, false
	}

	direction := core.SampleCone(axis, cosThetaMax, sampler.Get2D())
	distance, _, hit := e.sphere.Intersect(origin, direction)
	if !hit {
		// grazing the silhouette, take the tangent distance
		distance = math.Sqrt(math.Max(0, e.sphere.Center.Subtract(origin).LengthSquared()-e.sphere.Radius*e.sphere.Radius))
	}

	return EmissionSample{
		Direction: direction,
		Distance:  distance,
		PDF:       core.ConePDF(cosThetaMax),
	}, true
}

// PDF returns the uniform cone density for directions inside the cone
func (e *sphereEmission) PDF(origin, direction core.Vec3) float64 {
	axis, cosThetaMax, ok := e.cone(origin)
	if !ok || direction.Normalize().Dot(axis) < cosThetaMax {
		return 0
	}
	return core.ConePDF(cosThetaMax)
}
