package material

import (
	"math"

	"github.com/df07/go-octree-pathtracer/pkg/core"
)

// PerfectSpecularCoated is a diffuse base under a smooth dielectric coat.
// The coat reflects with the Fresnel probability, otherwise the base scatters.
type PerfectSpecularCoated struct {
	nonEmissive
	Albedo Texture
	IOR    float64
}

// NewPerfectSpecularCoated creates a smooth coated material with a uniform base
func NewPerfectSpecularCoated(albedo core.Vec3, ior float64) *PerfectSpecularCoated {
	return &PerfectSpecularCoated{Albedo: NewSolidTexture(albedo), IOR: ior}
}

// Shade implements the Material interface
func (p *PerfectSpecularCoated) Shade(sampler core.Sampler, in ShadeInput, state *PathState) (core.Vec3, bool) {
	n := facing(in.Normal, in.Incoming)
	f := FresnelDielectric(-in.Incoming.Dot(n), 1, p.IOR)

	// choosing the lobe with probability f cancels the Fresnel weight
	if sampler.Get1D() < f {
		return in.Incoming.Reflect(n), true
	}
	return shadeLobe(p, sampler, in, state)
}

func (p *PerfectSpecularCoated) sample(sampler core.Sampler, wo, n core.Vec3, in ShadeInput) (core.Vec3, bool) {
	return core.SampleCosineHemisphere(n, sampler.Get2D()), true
}

func (p *PerfectSpecularCoated) eval(wo, wi, n core.Vec3, in ShadeInput) (core.Vec3, float64) {
	albedo := SampleOptional(p.Albedo, in.UV, in.HasUV)
	return albedo.Multiply(1.0 / math.Pi), core.CosineHemispherePDF(n, wi)
}
