package material

import (
	"github.com/df07/go-octree-pathtracer/pkg/core"
)

// Material decides how light leaves a surface point. Materials are
// read-only during rendering and may be shared between objects.
type Material interface {
	// Shade samples the direction the path continues in and folds the
	// sample weight into state.Throughput. It returns false when the path
	// terminates at this surface.
	Shade(sampler core.Sampler, in ShadeInput, state *PathState) (core.Vec3, bool)

	// Emissivity returns the radiance emitted at the given texture coordinates
	Emissivity(uv core.Vec2, hasUV bool) core.Vec3
}

// ShadeInput describes the surface point being shaded
type ShadeInput struct {
	Incoming core.Vec3 // Direction of the arriving ray (toward the surface)
	Normal   core.Vec3 // Geometric normal reported by the object
	UV       core.Vec2
	HasUV    bool

	// LightSample is an optional direction toward an emitter. When set,
	// LightPDF returns the solid angle density of that light strategy.
	LightSample *core.Vec3
	LightPDF    func(direction core.Vec3) float64
}

// PathState is the mutable state carried along one path
type PathState struct {
	Throughput core.Vec3
	Inside     bool    // Whether the path is inside a dielectric
	IOR        float64 // Refractive index of the medium the path is in
}

// NewPathState returns the state of a path leaving the camera
func NewPathState() PathState {
	return PathState{Throughput: core.Splat(1), IOR: 1}
}

// emitter is implemented by materials that are light sources
type emitter interface {
	IsEmissive() bool
}

// IsEmissive reports whether m is a light source
func IsEmissive(m Material) bool {
	e, ok := m.(emitter)
	return ok && e.IsEmissive()
}

// nonEmissive supplies a black Emissivity for reflective materials
type nonEmissive struct{}

// Emissivity returns black
func (nonEmissive) Emissivity(core.Vec2, bool) core.Vec3 {
	return core.Vec3{}
}

// facing flips n so it points against the incoming direction
func facing(n, incoming core.Vec3) core.Vec3 {
	if n.Dot(incoming) > 0 {
		return n.Negate()
	}
	return n
}
