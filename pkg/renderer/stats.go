package renderer

import (
	"image"
	"math"
	"time"

	"github.com/df07/go-octree-pathtracer/pkg/core"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels    int           // Total number of pixels rendered
	TotalSamples   int           // Samples that contributed to a pixel
	DroppedSamples int           // Samples discarded for containing NaN
	TotalBounces   int           // Surface interactions over all paths
	Threads        int           // Workers used
	Duration       time.Duration // Wall time of the render
}

// merge adds the counters of a worker into s
func (s *RenderStats) merge(other RenderStats) {
	s.TotalPixels += other.TotalPixels
	s.TotalSamples += other.TotalSamples
	s.DroppedSamples += other.DroppedSamples
	s.TotalBounces += other.TotalBounces
}

// AverageBounces returns the mean path length in bounces
func (s RenderStats) AverageBounces() float64 {
	paths := s.TotalSamples + s.DroppedSamples
	if paths == 0 {
		return 0
	}
	return float64(s.TotalBounces) / float64(paths)
}

// SamplesPerSecond returns the sampling throughput of the render
func (s RenderStats) SamplesPerSecond() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return float64(s.TotalSamples+s.DroppedSamples) / s.Duration.Seconds()
}

// PixelStats accumulates the samples of a single pixel
type PixelStats struct {
	ColorAccum  core.Vec3 // RGB accumulator for final result
	SampleCount int       // Number of samples averaged
	Dropped     int       // Number of NaN samples skipped
}

// AddSample adds a color sample, skipping it when any channel is NaN
func (ps *PixelStats) AddSample(color core.Vec3) bool {
	if color.HasNaN() {
		ps.Dropped++
		return false
	}
	ps.ColorAccum = ps.ColorAccum.Add(color)
	ps.SampleCount++
	return true
}

// GetColor returns the average of the accepted samples
func (ps *PixelStats) GetColor() core.Vec3 {
	if ps.SampleCount == 0 {
		return core.Vec3{X: 0, Y: 0, Z: 0}
	}
	return ps.ColorAccum.Multiply(1.0 / float64(ps.SampleCount))
}

// CalculateAverageLuminance returns the mean Rec. 709 luminance of an image in [0, 1]
func CalculateAverageLuminance(img image.Image) float64 {
	bounds := img.Bounds()
	pixels := bounds.Dx() * bounds.Dy()
	if pixels == 0 {
		return 0
	}

	total := 0.0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			total += 0.2126*float64(r)/0xffff + 0.7152*float64(g)/0xffff + 0.0722*float64(b)/0xffff
		}
	}
	return math.Min(1, total/float64(pixels))
}
