package material

import (
	"testing"

	"github.com/df07/go-octree-pathtracer/pkg/core"
)

// TestImageTextureSample tests nearest-pixel lookup with the vertical flip
func TestImageTextureSample(t *testing.T) {
	// Layout:
	//   white black
	//   black white
	white := core.NewVec3(1, 1, 1)
	black := core.NewVec3(0, 0, 0)
	pixels := []core.Vec3{
		white, black, // Row 0 (top in image coords)
		black, white, // Row 1 (bottom in image coords)
	}
	texture := NewImageTexture(2, 2, pixels)

	tests := []struct {
		uv       core.Vec2
		expected core.Vec3
	}{
		{core.NewVec2(0.1, 0.1), black}, // bottom-left
		{core.NewVec2(0.9, 0.1), white}, // bottom-right
		{core.NewVec2(0.1, 0.9), white}, // top-left
		{core.NewVec2(0.9, 0.9), black}, // top-right
		{core.NewVec2(1.0, 1.0), black}, // clamped to the top-right pixel
		{core.NewVec2(-3, 5), white},    // clamped to the top-left pixel
	}

	for _, tt := range tests {
		if got := texture.Sample(tt.uv); got != tt.expected {
			t.Errorf("UV%v: expected %v, got %v", tt.uv, tt.expected, got)
		}
	}

	if got := texture.Fallback(); got != core.Splat(0.5) {
		t.Errorf("Expected average fallback (0.5,0.5,0.5), got %v", got)
	}
}

func TestImageTexture_MismatchedPixelsPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Expected panic for mismatched pixel count")
		}
	}()
	NewImageTexture(2, 2, make([]core.Vec3, 3))
}

func TestGradientTexture(t *testing.T) {
	g := NewGradientTexture(
		core.NewVec3(1, 0, 0), // top left
		core.NewVec3(0, 1, 0), // top right
		core.NewVec3(0, 0, 1), // bottom right
		core.NewVec3(0, 0, 0), // bottom left
	)

	tests := []struct {
		uv       core.Vec2
		expected core.Vec3
	}{
		{core.NewVec2(0, 1), core.NewVec3(1, 0, 0)},
		{core.NewVec2(1, 1), core.NewVec3(0, 1, 0)},
		{core.NewVec2(1, 0), core.NewVec3(0, 0, 1)},
		{core.NewVec2(0, 0), core.NewVec3(0, 0, 0)},
		{core.NewVec2(0.5, 0.5), core.NewVec3(0.25, 0.25, 0.25)},
	}
	for _, tt := range tests {
		if got := g.Sample(tt.uv); got.Subtract(tt.expected).Length() > 1e-12 {
			t.Errorf("UV%v: expected %v, got %v", tt.uv, tt.expected, got)
		}
	}

	if got := g.Fallback(); got.Subtract(core.NewVec3(0.25, 0.25, 0.25)).Length() > 1e-12 {
		t.Errorf("Expected corner average, got %v", got)
	}
	if got := SampleOptional(g, core.NewVec2(0, 1), false); got != g.Fallback() {
		t.Errorf("Expected fallback without UV, got %v", got)
	}
}

func TestCheckerTexture(t *testing.T) {
	c := NewCheckerTexture(core.NewVec3(1, 1, 1), core.NewVec3(0, 0, 0), 4)

	if got := c.Sample(core.NewVec2(0.1, 0.1)); got != c.Even {
		t.Errorf("Expected even check, got %v", got)
	}
	if got := c.Sample(core.NewVec2(0.3, 0.1)); got != c.Odd {
		t.Errorf("Expected odd check, got %v", got)
	}
	if got := c.Sample(core.NewVec2(0.3, 0.3)); got != c.Even {
		t.Errorf("Expected even check on the diagonal, got %v", got)
	}
}
