package renderer

import (
	"fmt"
	"image"
	"image/color"
)

// Canvas is an 8-bit raster with interleaved channels, row-major from the top-left
type Canvas struct {
	width    int
	height   int
	channels int
	data     []uint8
}

// NewCanvas allocates a black canvas
func NewCanvas(width, height, channels int) *Canvas {
	if width <= 0 || height <= 0 || channels <= 0 {
		panic(fmt.Sprintf("canvas: invalid dimensions %dx%dx%d", width, height, channels))
	}
	return &Canvas{
		width:    width,
		height:   height,
		channels: channels,
		data:     make([]uint8, width*height*channels),
	}
}

// Width returns the canvas width in pixels
func (c *Canvas) Width() int { return c.width }

// Height returns the canvas height in pixels
func (c *Canvas) Height() int { return c.height }

// Channels returns the number of channels per pixel
func (c *Canvas) Channels() int { return c.channels }

// Data returns the backing bytes
func (c *Canvas) Data() []uint8 { return c.data }

func (c *Canvas) index(x, y, channel int) int {
	if x < 0 || x >= c.width || y < 0 || y >= c.height || channel < 0 || channel >= c.channels {
		panic(fmt.Sprintf("canvas: (%d, %d, %d) out of bounds for %dx%dx%d", x, y, channel, c.width, c.height, c.channels))
	}
	return (y*c.width+x)*c.channels + channel
}

// Store quantizes v, clamped to [0, 1], into the channel of pixel (x, y).
// NaN stores 0.
func (c *Canvas) Store(x, y, channel int, v float64) {
	if !(v > 0) {
		v = 0
	} else if v > 1 {
		v = 1
	}
	c.data[c.index(x, y, channel)] = uint8(v * 255)
}

// StoreByte writes a raw channel value
func (c *Canvas) StoreByte(x, y, channel int, b uint8) {
	c.data[c.index(x, y, channel)] = b
}

// LoadByte reads a raw channel value
func (c *Canvas) LoadByte(x, y, channel int) uint8 {
	return c.data[c.index(x, y, channel)]
}

// LoadFloat reads a channel value scaled to [0, 1]
func (c *Canvas) LoadFloat(x, y, channel int) float64 {
	return float64(c.LoadByte(x, y, channel)) / 255
}

// Image copies the canvas into an image for encoding. One channel becomes
// gray, two and more become RGB(A) with missing channels filled.
func (c *Canvas) Image() image.Image {
	rect := image.Rect(0, 0, c.width, c.height)
	if c.channels == 1 {
		img := image.NewGray(rect)
		copy(img.Pix, c.data)
		return img
	}

	img := image.NewNRGBA(rect)
	for y := 0; y < c.height; y++ {
		for x := 0; x < c.width; x++ {
			px := color.NRGBA{A: 255}
			base := (y*c.width + x) * c.channels
			px.R = c.data[base]
			px.G = c.data[base+1]
			if c.channels > 2 {
				px.B = c.data[base+2]
			}
			if c.channels > 3 {
				px.A = c.data[base+3]
			}
			img.SetNRGBA(x, y, px)
		}
	}
	return img
}
