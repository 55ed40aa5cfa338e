package material

import (
	"math"

	"github.com/df07/go-octree-pathtracer/pkg/core"
)

// Texture maps texture coordinates to a color
type Texture interface {
	// Sample returns the color at the given coordinates
	Sample(uv core.Vec2) core.Vec3
	// Fallback returns the color used when a surface has no coordinates
	Fallback() core.Vec3
}

// SampleOptional samples t at uv when hasUV is set and falls back otherwise
func SampleOptional(t Texture, uv core.Vec2, hasUV bool) core.Vec3 {
	if hasUV {
		return t.Sample(uv)
	}
	return t.Fallback()
}

// GradientTexture blends four corner colors bilinearly across the unit square
type GradientTexture struct {
	TopLeft     core.Vec3
	TopRight    core.Vec3
	BottomRight core.Vec3
	BottomLeft  core.Vec3
	average     core.Vec3
}

// NewGradientTexture creates a gradient from its four corners (v=1 is the top)
func NewGradientTexture(topLeft, topRight, bottomRight, bottomLeft core.Vec3) *GradientTexture {
	return &GradientTexture{
		TopLeft:     topLeft,
		TopRight:    topRight,
		BottomRight: bottomRight,
		BottomLeft:  bottomLeft,
		average:     topLeft.Add(topRight).Add(bottomRight).Add(bottomLeft).Multiply(0.25),
	}
}

// NewSolidTexture creates a texture with one uniform color
func NewSolidTexture(color core.Vec3) *GradientTexture {
	return NewGradientTexture(color, color, color, color)
}

// Sample returns the bilinear blend of the corners at uv
func (g *GradientTexture) Sample(uv core.Vec2) core.Vec3 {
	bottom := g.BottomRight.Multiply(uv.X).Add(g.BottomLeft.Multiply(1 - uv.X))
	top := g.TopRight.Multiply(uv.X).Add(g.TopLeft.Multiply(1 - uv.X))
	return top.Multiply(uv.Y).Add(bottom.Multiply(1 - uv.Y))
}

// Fallback returns the average of the four corners
func (g *GradientTexture) Fallback() core.Vec3 {
	return g.average
}

// CheckerTexture alternates between two colors on a square grid in UV space
type CheckerTexture struct {
	Even  core.Vec3
	Odd   core.Vec3
	Scale float64 // Number of checks per unit of UV
}

// NewCheckerTexture creates a checker pattern with scale checks per UV unit
func NewCheckerTexture(even, odd core.Vec3, scale float64) *CheckerTexture {
	return &CheckerTexture{Even: even, Odd: odd, Scale: scale}
}

// Sample returns the color of the check containing uv
func (c *CheckerTexture) Sample(uv core.Vec2) core.Vec3 {
	i := int(math.Floor(uv.X*c.Scale)) + int(math.Floor(uv.Y*c.Scale))
	if i%2 == 0 {
		return c.Even
	}
	return c.Odd
}

// Fallback returns the mean of both colors
func (c *CheckerTexture) Fallback() core.Vec3 {
	return c.Even.Add(c.Odd).Multiply(0.5)
}
