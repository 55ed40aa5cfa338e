package material

import (
	"github.com/df07/go-octree-pathtracer/pkg/core"
)

// Emissive represents a light-emitting material. Paths end on emitters.
type Emissive struct {
	Emission   Texture // Emitted light color
	Multiplier float64 // Scales the texture into radiance
}

// NewEmissive creates a new emissive material with uniform radiance
func NewEmissive(emission core.Vec3) *Emissive {
	return &Emissive{Emission: NewSolidTexture(emission), Multiplier: 1}
}

// NewTexturedEmissive creates an emitter whose radiance is texture·multiplier
func NewTexturedEmissive(emission Texture, multiplier float64) *Emissive {
	return &Emissive{Emission: emission, Multiplier: multiplier}
}

// Shade terminates the path
func (e *Emissive) Shade(sampler core.Sampler, in ShadeInput, state *PathState) (core.Vec3, bool) {
	return core.Vec3{}, false
}

// Emissivity returns the emitted radiance at uv
func (e *Emissive) Emissivity(uv core.Vec2, hasUV bool) core.Vec3 {
	return SampleOptional(e.Emission, uv, hasUV).Multiply(e.Multiplier)
}

// IsEmissive marks the material as a light source
func (e *Emissive) IsEmissive() bool {
	return true
}
