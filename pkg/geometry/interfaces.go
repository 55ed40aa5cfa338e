// Package geometry holds the renderable objects and the emission profiles
// used to sample the emissive ones.
package geometry

import (
	"github.com/df07/go-octree-pathtracer/pkg/core"
	"github.com/df07/go-octree-pathtracer/pkg/material"
)

// SurfaceData describes the surface at a ray hit
type SurfaceData struct {
	Normal   core.Vec3 // Unit normal
	UV       core.Vec2 // Texture coordinates, valid when HasUV is set
	HasUV    bool
	Material material.Material
}

// Object is anything a ray can hit
type Object interface {
	// Intersect returns the distance along direction to the nearest hit in front of origin
	Intersect(origin, direction core.Vec3) (float64, SurfaceData, bool)
}

// BoundedObject is an Object with finite extent, eligible for the BVH
type BoundedObject interface {
	Object
	BoundingBox() core.AABB
}

// EmissionSample is a direction toward an emitter drawn from an EmissionProfile
type EmissionSample struct {
	Direction core.Vec3 // Unit direction from the shading point
	Distance  float64   // Distance to the sampled point on the emitter
	PDF       float64   // Solid angle density of Direction
}

// EmissionProfile samples directions toward one emitter
type EmissionProfile interface {
	// Sample draws a direction from origin toward the emitter. It returns
	// false when the emitter cannot be seen from origin at all.
	Sample(sampler core.Sampler, origin core.Vec3) (EmissionSample, bool)
	// PDF returns the solid angle density of sampling direction from origin
	PDF(origin, direction core.Vec3) float64
}

// Emitter is an object that exposes emission profiles for its emissive parts
type Emitter interface {
	EmissionProfiles() []EmissionProfile
}
