package material

import (
	"github.com/df07/go-octree-pathtracer/pkg/core"
)

// ImageTexture provides color from a 2D image
type ImageTexture struct {
	Width   int
	Height  int
	Pixels  []core.Vec3 // Row-major: Pixels[y*Width + x], y=0 is the top row
	average core.Vec3
}

// NewImageTexture creates a new image texture
func NewImageTexture(width, height int, pixels []core.Vec3) *ImageTexture {
	if width <= 0 || height <= 0 || len(pixels) != width*height {
		panic("image texture: pixel count does not match dimensions")
	}

	var sum core.Vec3
	for _, p := range pixels {
		sum = sum.Add(p)
	}

	return &ImageTexture{
		Width:   width,
		Height:  height,
		Pixels:  pixels,
		average: sum.Multiply(1.0 / float64(len(pixels))),
	}
}

// Sample looks up the nearest pixel. V=0 is the bottom of the image and
// coordinates outside [0, 1] clamp to the border.
func (t *ImageTexture) Sample(uv core.Vec2) core.Vec3 {
	x := int(uv.X * float64(t.Width))
	y := int((1.0 - uv.Y) * float64(t.Height))

	x = max(0, min(t.Width-1, x))
	y = max(0, min(t.Height-1, y))

	return t.Pixels[y*t.Width+x]
}

// Fallback returns the average pixel color
func (t *ImageTexture) Fallback() core.Vec3 {
	return t.average
}
