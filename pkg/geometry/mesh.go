package geometry

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-octree-pathtracer/pkg/accel"
	"github.com/df07/go-octree-pathtracer/pkg/core"
	"github.com/df07/go-octree-pathtracer/pkg/log"
	"github.com/df07/go-octree-pathtracer/pkg/material"
)

var meshLogger = log.New("mesh")

// trianglePadding thickens the bounding box of axis-aligned triangles
const trianglePadding = 1e-6

// Vertex is a mesh vertex with optional texture coordinates
type Vertex struct {
	Position core.Vec3
	UV       core.Vec2
}

// Face indexes three vertices and a material of a mesh
type Face struct {
	Indices  [3]int
	Material int
}

// Triad is one resolved triangle of a mesh
type Triad struct {
	Vertices [3]Vertex
	Material material.Material
}

// MeshOptions configures how a mesh is intersected
type MeshOptions struct {
	Cull  CullMode
	HasUV bool // Whether vertex UVs are meaningful
}

// Mesh is a triangle soup with its own BVH over triangle indices
type Mesh struct {
	Triads  []Triad
	Options MeshOptions
	bvh     *accel.BVH[int]
	bbox    core.AABB
}

// NewMesh resolves indexed faces into triangles and builds the inner BVH.
// Out-of-range vertex or material indices panic.
func NewMesh(vertices []Vertex, faces []Face, materials []material.Material, options MeshOptions) *Mesh {
	triads := make([]Triad, len(faces))
	for i, f := range faces {
		for k, idx := range f.Indices {
			if idx < 0 || idx >= len(vertices) {
				panic(fmt.Sprintf("mesh face %d: vertex index %d out of bounds (%d vertices)", i, idx, len(vertices)))
			}
			triads[i].Vertices[k] = vertices[idx]
		}
		if f.Material < 0 || f.Material >= len(materials) {
			panic(fmt.Sprintf("mesh face %d: material index %d out of bounds (%d materials)", i, f.Material, len(materials)))
		}
		triads[i].Material = materials[f.Material]
	}
	return NewMeshFromTriads(triads, options)
}

// NewMeshFromTriads creates a mesh from already resolved triangles
func NewMeshFromTriads(triads []Triad, options MeshOptions) *Mesh {
	m := &Mesh{Triads: triads, Options: options}
	m.build()
	return m
}

// build rebuilds the inner BVH and bounding box from the current triads
func (m *Mesh) build() {
	indices := make([]int, len(m.Triads))
	for i := range indices {
		indices[i] = i
	}

	m.bvh = accel.NewBVH[int](m.triadBox)
	m.bvh.Build(indices)

	m.bbox = core.AABB{}
	for i := range m.Triads {
		if i == 0 {
			m.bbox = m.triadBox(0)
		} else {
			m.bbox = m.bbox.Union(m.triadBox(i))
		}
	}

	stats := m.bvh.Stats()
	meshLogger.Debugf("built mesh: %d triangles, %d BVH nodes, depth %d", len(m.Triads), stats.Nodes, stats.MaxDepth)
}

func (m *Mesh) triadBox(i int) core.AABB {
	v := m.Triads[i].Vertices
	return core.NewAABBFromPoints(v[0].Position, v[1].Position, v[2].Position).Expand(trianglePadding)
}

type triadHit struct {
	distance float64
	surface  SurfaceData
}

func (m *Mesh) intersectTriad(i int, origin, direction core.Vec3) (triadHit, bool) {
	tri := &m.Triads[i]
	p0, p1, p2 := tri.Vertices[0].Position, tri.Vertices[1].Position, tri.Vertices[2].Position

	t, b1, b2, ok := intersectTriangle(p0, p1, p2, origin, direction, m.Options.Cull)
	if !ok {
		return triadHit{}, false
	}

	normal := p1.Subtract(p0).Cross(p2.Subtract(p0)).Normalize()
	if normal.Dot(direction) > 0 {
		normal = normal.Negate()
	}

	surface := SurfaceData{Normal: normal, Material: tri.Material, HasUV: m.Options.HasUV}
	if m.Options.HasUV {
		b0 := 1 - b1 - b2
		surface.UV = tri.Vertices[0].UV.Multiply(b0).
			Add(tri.Vertices[1].UV.Multiply(b1)).
			Add(tri.Vertices[2].UV.Multiply(b2))
	}
	return triadHit{distance: t, surface: surface}, true
}

func triadDistance(h triadHit) float64 {
	return h.distance
}

// Intersect returns the nearest triangle hit through the inner BVH
func (m *Mesh) Intersect(origin, direction core.Vec3) (float64, SurfaceData, bool) {
	hit, ok := accel.Intersect(m.bvh, origin, direction, m.intersectTriad, triadDistance)
	if !ok {
		return 0, SurfaceData{}, false
	}
	return hit.distance, hit.surface, true
}

// BoundingBox returns the union of all triangle boxes
func (m *Mesh) BoundingBox() core.AABB {
	return m.bbox
}

// Transform applies an affine matrix to every vertex and rebuilds the BVH.
// The mesh must not be in use by a render while it is transformed.
func (m *Mesh) Transform(transform mgl64.Mat4) {
	for i := range m.Triads {
		for k := range m.Triads[i].Vertices {
			p := m.Triads[i].Vertices[k].Position
			out := transform.Mul4x1(mgl64.Vec4{p.X, p.Y, p.Z, 1})
			if out[3] != 0 && out[3] != 1 {
				out = out.Mul(1 / out[3])
			}
			m.Triads[i].Vertices[k].Position = core.NewVec3(out[0], out[1], out[2])
		}
	}
	m.build()
}

// EmissionProfiles returns one area sampler per emissive triangle
func (m *Mesh) EmissionProfiles() []EmissionProfile {
	var profiles []EmissionProfile
	for i := range m.Triads {
		if material.IsEmissive(m.Triads[i].Material) {
			profiles = append(profiles, &triangleEmission{mesh: m, index: i})
		}
	}
	return profiles
}

// triangleEmission samples points uniformly over one mesh triangle
type triangleEmission struct {
	mesh  *Mesh
	index int
}

func (e *triangleEmission) corners() (core.Vec3, core.Vec3, core.Vec3) {
	v := e.mesh.Triads[e.index].Vertices
	return v[0].Position, v[1].Position, v[2].Position
}

// Sample picks a point on the triangle and converts its area density to solid angle
func (e *triangleEmission) Sample(sampler core.Sampler, origin core.Vec3) (EmissionSample, bool) {
	p0, p1, p2 := e.corners()
	cross := p1.Subtract(p0).Cross(p2.Subtract(p0))
	area := cross.Length() / 2
	if area == 0 {
		return EmissionSample{}, false
	}

	b1, b2 := core.SampleTriangle(sampler.Get2D())
	point := p0.Multiply(1 - b1 - b2).Add(p1.Multiply(b1)).Add(p2.Multiply(b2))

	toPoint := point.Subtract(origin)
	distance := toPoint.Length()
	if distance == 0 {
		return EmissionSample{}, false
	}
	direction := toPoint.Multiply(1 / distance)

	// facing is negative when the origin sees the triangle counter-clockwise
	facing := direction.Dot(cross)
	switch {
	case facing == 0:
		return EmissionSample{}, false
	case e.mesh.Options.Cull == CullFront && facing > 0:
		return EmissionSample{}, false
	case e.mesh.Options.Cull == CullBack && facing < 0:
		return EmissionSample{}, false
	}

	cosLight := math.Abs(direction.Dot(cross.Normalize()))

	return EmissionSample{
		Direction: direction,
		Distance:  distance,
		PDF:       distance * distance / (cosLight * area),
	}, true
}

// PDF returns the solid angle density of hitting the triangle along direction
func (e *triangleEmission) PDF(origin, direction core.Vec3) float64 {
	p0, p1, p2 := e.corners()
	direction = direction.Normalize()

	t, _, _, ok := intersectTriangle(p0, p1, p2, origin, direction, e.mesh.Options.Cull)
	if !ok {
		return 0
	}

	cross := p1.Subtract(p0).Cross(p2.Subtract(p0))
	area := cross.Length() / 2
	cosLight := math.Abs(direction.Dot(cross.Normalize()))
	if area == 0 || cosLight == 0 {
		return 0
	}
	return t * t / (cosLight * area)
}
