package geometry

import (
	"math"

	"github.com/df07/go-octree-pathtracer/pkg/core"
	"github.com/df07/go-octree-pathtracer/pkg/material"
)

// quadPadding thickens the bounding box of a flat quad
const quadPadding = 1e-4

// Quad represents a one-sided parallelogram defined by a corner and two edge
// vectors. The visible side faces U × V.
type Quad struct {
	Corner   core.Vec3 // One corner of the quad
	U        core.Vec3 // First edge vector
	V        core.Vec3 // Second edge vector
	Normal   core.Vec3 // Unit normal (U × V)
	Material material.Material
	d        float64   // Plane equation constant: normal · p = d
	w        core.Vec3 // Cached vector for planar coordinates
	area     float64
}

// NewQuad creates a new quad from a corner point and two edge vectors
func NewQuad(corner, u, v core.Vec3, material material.Material) *Quad {
	cross := u.Cross(v)
	normal := cross.Normalize()

	return &Quad{
		Corner:   corner,
		U:        u,
		V:        v,
		Normal:   normal,
		Material: material,
		d:        normal.Dot(corner),
		w:        cross.Multiply(1.0 / cross.Dot(cross)),
		area:     cross.Length(),
	}
}

// Intersect tests the ray against the quad's plane, then its edges.
// UV are the coordinates along U and V in [0, 1].
func (q *Quad) Intersect(origin, direction core.Vec3) (float64, SurfaceData, bool) {
	denom := direction.Dot(q.Normal)
	if denom >= -parallelEpsilon {
		return 0, SurfaceData{}, false
	}

	t := (q.d - origin.Dot(q.Normal)) / denom
	if t < 0 {
		return 0, SurfaceData{}, false
	}

	hitVector := origin.Add(direction.Multiply(t)).Subtract(q.Corner)
	alpha := q.w.Dot(hitVector.Cross(q.V))
	beta := q.w.Dot(q.U.Cross(hitVector))
	if alpha < 0 || alpha > 1 || beta < 0 || beta > 1 {
		return 0, SurfaceData{}, false
	}

	return t, SurfaceData{
		Normal:   q.Normal,
		UV:       core.NewVec2(alpha, beta),
		HasUV:    true,
		Material: q.Material,
	}, true
}

// BoundingBox returns the box around the four corners
func (q *Quad) BoundingBox() core.AABB {
	return core.NewAABBFromPoints(
		q.Corner,
		q.Corner.Add(q.U),
		q.Corner.Add(q.V),
		q.Corner.Add(q.U).Add(q.V),
	).Expand(quadPadding)
}

// Area returns the surface area of the quad
func (q *Quad) Area() float64 {
	return q.area
}

// EmissionProfiles returns an area sampler when the quad is a light
func (q *Quad) EmissionProfiles() []EmissionProfile {
	if !material.IsEmissive(q.Material) {
		return nil
	}
	return []EmissionProfile{&quadEmission{quad: q}}
}

// quadEmission samples points uniformly over a quad's area
type quadEmission struct {
	quad *Quad
}

// Sample picks a point on the quad and converts its area density to solid angle
func (e *quadEmission) Sample(sampler core.Sampler, origin core.Vec3) (EmissionSample, bool) {
	q := e.quad
	if q.Normal.Dot(origin)-q.d <= 0 {
		// behind the emitting side
		return EmissionSample{}, false
	}

	st := sampler.Get2D()
	point := q.Corner.Add(q.U.Multiply(st.X)).Add(q.V.Multiply(st.Y))
	toPoint := point.Subtract(origin)
	distance := toPoint.Length()
	if distance == 0 {
		return EmissionSample{}, false
	}
	direction := toPoint.Multiply(1.0 / distance)

	cosLight := -direction.Dot(q.Normal)
	if cosLight <= 0 {
		return EmissionSample{}, false
	}

	return EmissionSample{
		Direction: direction,
		Distance:  distance,
		PDF:       distance * distance / (cosLight * q.area),
	}, true
}

// PDF returns the solid angle density of hitting the quad along direction
func (e *quadEmission) PDF(origin, direction core.Vec3) float64 {
	direction = direction.Normalize()
	t, _, hit := e.quad.Intersect(origin, direction)
	if !hit {
		return 0
	}
	cosLight := math.Abs(direction.Dot(e.quad.Normal))
	return t * t / (cosLight * e.quad.area)
}
