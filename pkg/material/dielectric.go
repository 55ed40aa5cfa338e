package material

import (
	"github.com/df07/go-octree-pathtracer/pkg/core"
)

// Dielectric represents a transparent material like glass that can both reflect and refract.
// The path state tracks a single enclosing medium: entering sets Inside and
// the medium index, leaving returns to a vacuum.
type Dielectric struct {
	nonEmissive
	RefractiveIndex float64 // Index of refraction (e.g., 1.5 for glass)
	Tint            Texture // Transmittance color, nil means clear
}

// NewDielectric creates a new clear dielectric material
func NewDielectric(refractiveIndex float64) *Dielectric {
	return &Dielectric{RefractiveIndex: refractiveIndex}
}

// Shade reflects with the Fresnel probability and refracts otherwise
func (d *Dielectric) Shade(sampler core.Sampler, in ShadeInput, state *PathState) (core.Vec3, bool) {
	dir := in.Incoming.Normalize()
	n := facing(in.Normal, dir)

	etaI, etaT := 1.0, d.RefractiveIndex
	if state.Inside {
		etaI, etaT = state.IOR, 1.0
	}

	if d.Tint != nil {
		state.Throughput = state.Throughput.MultiplyVec(SampleOptional(d.Tint, in.UV, in.HasUV))
	}

	reflectance := FresnelDielectric(-dir.Dot(n), etaI, etaT)
	if sampler.Get1D() < reflectance {
		return dir.Reflect(n), true
	}

	refracted, ok := refract(dir, n, etaI/etaT)
	if !ok {
		return dir.Reflect(n), true
	}

	state.Inside = !state.Inside
	state.IOR = etaT
	return refracted, true
}
