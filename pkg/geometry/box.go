package geometry

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-octree-pathtracer/pkg/core"
	"github.com/df07/go-octree-pathtracer/pkg/material"
)

// Box represents a closed box made up of 6 outward-facing quads with optional rotation
type Box struct {
	Center   core.Vec3 // Center point of the box
	Size     core.Vec3 // Half-extents along each local axis
	Rotation core.Vec3 // Rotation angles in radians (X, Y, Z)
	Material material.Material
	faces    [6]*Quad
	bbox     core.AABB
}

// NewBox creates a new box with the given center, half-extents, rotation, and material
// Rotation is in radians around X, Y, Z axes (applied in that order)
func NewBox(center, size, rotation core.Vec3, material material.Material) *Box {
	box := &Box{
		Center:   center,
		Size:     size,
		Rotation: rotation,
		Material: material,
	}
	box.generateFaces()
	return box
}

// NewAxisAlignedBox creates a new axis-aligned box (no rotation)
func NewAxisAlignedBox(center, size core.Vec3, material material.Material) *Box {
	return NewBox(center, size, core.Vec3{}, material)
}

// generateFaces creates the 6 quad faces of the box
func (b *Box) generateFaces() {
	corners := [8]core.Vec3{
		core.NewVec3(-1, -1, -1), // 0: left-bottom-back
		core.NewVec3(1, -1, -1),  // 1: right-bottom-back
		core.NewVec3(1, 1, -1),   // 2: right-top-back
		core.NewVec3(-1, 1, -1),  // 3: left-top-back
		core.NewVec3(-1, -1, 1),  // 4: left-bottom-front
		core.NewVec3(1, -1, 1),   // 5: right-bottom-front
		core.NewVec3(1, 1, 1),    // 6: right-top-front
		core.NewVec3(-1, 1, 1),   // 7: left-top-front
	}

	rotation := mgl64.Rotate3DZ(b.Rotation.Z).Mul3(mgl64.Rotate3DY(b.Rotation.Y)).Mul3(mgl64.Rotate3DX(b.Rotation.X))
	for i, c := range corners {
		local := mgl64.Vec3{c.X * b.Size.X, c.Y * b.Size.Y, c.Z * b.Size.Z}
		world := rotation.Mul3x1(local)
		corners[i] = core.NewVec3(world[0], world[1], world[2]).Add(b.Center)
	}

	// Each face is a corner plus two edges ordered so U × V points outward
	faces := [6][3]int{
		{4, 5, 7}, // front (Z+)
		{1, 0, 2}, // back (Z-)
		{5, 1, 6}, // right (X+)
		{0, 4, 3}, // left (X-)
		{3, 7, 2}, // top (Y+)
		{4, 0, 5}, // bottom (Y-)
	}
	for i, f := range faces {
		b.faces[i] = NewQuad(
			corners[f[0]],
			corners[f[1]].Subtract(corners[f[0]]),
			corners[f[2]].Subtract(corners[f[0]]),
			b.Material,
		)
	}

	b.bbox = core.NewAABBFromPoints(corners[:]...)
}

// Intersect returns the nearest face hit
func (b *Box) Intersect(origin, direction core.Vec3) (float64, SurfaceData, bool) {
	var (
		closest  float64
		surface  SurfaceData
		anyFaces bool
	)
	for _, face := range b.faces {
		if t, s, ok := face.Intersect(origin, direction); ok && (!anyFaces || t < closest) {
			closest, surface, anyFaces = t, s, true
		}
	}
	return closest, surface, anyFaces
}

// BoundingBox returns the axis-aligned bounding box for this box
func (b *Box) BoundingBox() core.AABB {
	return b.bbox
}

// Faces returns the six quads of the box
func (b *Box) Faces() [6]*Quad {
	return b.faces
}

// EmissionProfiles returns one area sampler per face when the box is a light
func (b *Box) EmissionProfiles() []EmissionProfile {
	var profiles []EmissionProfile
	for _, face := range b.faces {
		profiles = append(profiles, face.EmissionProfiles()...)
	}
	return profiles
}
