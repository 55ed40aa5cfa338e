package material

import (
	"math"

	"github.com/df07/go-octree-pathtracer/pkg/core"
)

// Mix represents a material that probabilistically chooses between two materials
type Mix struct {
	Material1 Material
	Material2 Material
	Ratio     float64 // 0.0 = all material1, 1.0 = all material2
}

// NewMix creates a new mix material
func NewMix(material1, material2 Material, ratio float64) *Mix {
	// Clamp ratio to valid range
	ratio = math.Max(0.0, math.Min(ratio, 1.0))

	return &Mix{
		Material1: material1,
		Material2: material2,
		Ratio:     ratio,
	}
}

// Shade delegates to one of the two materials chosen by ratio
func (m *Mix) Shade(sampler core.Sampler, in ShadeInput, state *PathState) (core.Vec3, bool) {
	if sampler.Get1D() < m.Ratio {
		return m.Material2.Shade(sampler, in, state)
	}
	return m.Material1.Shade(sampler, in, state)
}

// Emissivity blends the emission of both materials
func (m *Mix) Emissivity(uv core.Vec2, hasUV bool) core.Vec3 {
	e1 := m.Material1.Emissivity(uv, hasUV)
	e2 := m.Material2.Emissivity(uv, hasUV)
	return e1.Multiply(1.0 - m.Ratio).Add(e2.Multiply(m.Ratio))
}
