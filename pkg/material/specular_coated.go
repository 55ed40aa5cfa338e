package material

import (
	"math"

	"github.com/df07/go-octree-pathtracer/pkg/core"
)

// minRoughness keeps the GGX distribution away from a delta peak
const minRoughness = 1e-3

// SpecularCoated is a diffuse base under a rough dielectric coat. The coat
// is a GGX microfacet BRDF with Smith shadowing and exact Fresnel, and the
// base receives the energy the coat does not reflect.
type SpecularCoated struct {
	nonEmissive
	Albedo    Texture
	Roughness Texture // GGX alpha, read from the X channel
	IOR       float64
}

// NewSpecularCoated creates a coated material with uniform parameters
func NewSpecularCoated(albedo core.Vec3, roughness, ior float64) *SpecularCoated {
	return &SpecularCoated{
		Albedo:    NewSolidTexture(albedo),
		Roughness: NewSolidTexture(core.Splat(roughness)),
		IOR:       ior,
	}
}

// Shade implements the Material interface
func (s *SpecularCoated) Shade(sampler core.Sampler, in ShadeInput, state *PathState) (core.Vec3, bool) {
	return shadeLobe(s, sampler, in, state)
}

func (s *SpecularCoated) alpha(in ShadeInput) float64 {
	return math.Max(minRoughness, SampleOptional(s.Roughness, in.UV, in.HasUV).X)
}

// sample picks the diffuse or the microfacet strategy with equal probability
func (s *SpecularCoated) sample(sampler core.Sampler, wo, n core.Vec3, in ShadeInput) (core.Vec3, bool) {
	if sampler.Get1D() < 0.5 {
		return core.SampleCosineHemisphere(n, sampler.Get2D()), true
	}

	h := sampleGGXHalf(s.alpha(in), n, sampler.Get2D())
	wi := wo.Negate().Reflect(h)
	return wi, wi.Dot(n) > 0
}

func (s *SpecularCoated) eval(wo, wi, n core.Vec3, in ShadeInput) (core.Vec3, float64) {
	cosO := wo.Dot(n)
	cosI := wi.Dot(n)
	if cosO <= 0 || cosI <= 0 {
		return core.Vec3{}, 0
	}

	alpha := s.alpha(in)
	h := wo.Add(wi).Normalize()
	woh := wo.Dot(h)

	d := ggxD(alpha, n, h)
	g := ggxG1(alpha, n, h, wo) * ggxG1(alpha, n, h, wi)
	f := FresnelDielectric(woh, 1, s.IOR)

	specular := d * g * f / (4 * cosO * cosI)
	albedo := SampleOptional(s.Albedo, in.UV, in.HasUV)
	brdf := albedo.Multiply((1 - f) / math.Pi).Add(core.Splat(specular))

	pdf := 0.5 * cosI / math.Pi
	if woh > 0 {
		pdf += 0.5 * d * n.Dot(h) / (4 * woh)
	}
	return brdf, pdf
}
