package material

import (
	"github.com/df07/go-octree-pathtracer/pkg/core"
)

// Mirror is a perfect specular reflector
type Mirror struct {
	nonEmissive
	Tint Texture // Reflectance, nil means white
}

// NewMirror creates a mirror with the given reflectance
func NewMirror(tint core.Vec3) *Mirror {
	return &Mirror{Tint: NewSolidTexture(tint)}
}

// Shade reflects the incoming direction about the facing normal
func (m *Mirror) Shade(sampler core.Sampler, in ShadeInput, state *PathState) (core.Vec3, bool) {
	n := facing(in.Normal, in.Incoming)
	if m.Tint != nil {
		state.Throughput = state.Throughput.MultiplyVec(SampleOptional(m.Tint, in.UV, in.HasUV))
	}
	return in.Incoming.Reflect(n), true
}
