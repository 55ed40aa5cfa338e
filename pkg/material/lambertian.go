package material

import (
	"math"

	"github.com/df07/go-octree-pathtracer/pkg/core"
)

// Lambertian represents a perfectly diffuse material
type Lambertian struct {
	nonEmissive
	Albedo Texture // Base color/reflectance (can be solid or textured)
}

// NewLambertian creates a new lambertian material with solid color
func NewLambertian(albedo core.Vec3) *Lambertian {
	return &Lambertian{Albedo: NewSolidTexture(albedo)}
}

// NewTexturedLambertian creates a new lambertian material with texture
func NewTexturedLambertian(albedo Texture) *Lambertian {
	return &Lambertian{Albedo: albedo}
}

// Shade implements the Material interface for lambertian scattering
func (l *Lambertian) Shade(sampler core.Sampler, in ShadeInput, state *PathState) (core.Vec3, bool) {
	return shadeLobe(l, sampler, in, state)
}

func (l *Lambertian) sample(sampler core.Sampler, wo, n core.Vec3, in ShadeInput) (core.Vec3, bool) {
	return core.SampleCosineHemisphere(n, sampler.Get2D()), true
}

func (l *Lambertian) eval(wo, wi, n core.Vec3, in ShadeInput) (core.Vec3, float64) {
	albedo := SampleOptional(l.Albedo, in.UV, in.HasUV)
	return albedo.Multiply(1.0 / math.Pi), core.CosineHemispherePDF(n, wi)
}
