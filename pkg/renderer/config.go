package renderer

import (
	"fmt"
	"math"
	"time"

	"github.com/df07/go-octree-pathtracer/pkg/core"
)

// SystemConfig controls how a render is scheduled
type SystemConfig struct {
	Threads          int           // Worker goroutines per render
	ProgressInterval time.Duration // Period of progress log lines, 0 disables them
}

// RayTraceConfig controls path construction and sampling
type RayTraceConfig struct {
	Bias            float64   // Offset of continuation rays along the surface normal
	Environment     core.Vec3 // Radiance of rays that leave the scene
	MinBounces      int       // Bounces before Russian roulette may terminate a path
	MaxBounces      int       // Hard cap on bounces per path
	SamplesPerPixel int
	Seed            uint64 // Base seed, each pixel draws from its own stream
	Jitter          bool   // Randomize sample positions inside the pixel
	LightSampling   bool   // Pass a direct light sample to materials
}

// LensConfig describes a thin lens camera
type LensConfig struct {
	FOV                float64 // Radians across the narrower image axis
	DefocusDiskRadius  float64 // 0 gives a pinhole
	FocalPlaneDistance float64
}

// Config contains all tracer settings
type Config struct {
	System   SystemConfig
	RayTrace RayTraceConfig
	Lens     LensConfig
}

// DefaultConfig returns the default tracer settings
func DefaultConfig() Config {
	return Config{
		System: SystemConfig{
			Threads:          4,
			ProgressInterval: time.Second,
		},
		RayTrace: RayTraceConfig{
			Bias:            1e-4,
			MinBounces:      3,
			MaxBounces:      16,
			SamplesPerPixel: 16,
			Jitter:          true,
		},
		Lens: LensConfig{
			FOV:                math.Pi / 2,
			DefocusDiskRadius:  0,
			FocalPlaneDistance: 1,
		},
	}
}

// Validate reports the first setting that would make a render meaningless
func (c Config) Validate() error {
	switch {
	case c.System.Threads < 1:
		return fmt.Errorf("threads must be at least 1, got %d", c.System.Threads)
	case c.RayTrace.SamplesPerPixel < 1:
		return fmt.Errorf("samples per pixel must be at least 1, got %d", c.RayTrace.SamplesPerPixel)
	case c.RayTrace.MaxBounces < 0:
		return fmt.Errorf("max bounces must not be negative, got %d", c.RayTrace.MaxBounces)
	case c.RayTrace.MinBounces < 0 || c.RayTrace.MinBounces > c.RayTrace.MaxBounces:
		return fmt.Errorf("min bounces must be within [0, %d], got %d", c.RayTrace.MaxBounces, c.RayTrace.MinBounces)
	case c.RayTrace.Bias < 0:
		return fmt.Errorf("bias must not be negative, got %g", c.RayTrace.Bias)
	case c.Lens.FOV <= 0 || c.Lens.FOV >= math.Pi:
		return fmt.Errorf("field of view must be within (0, 180) degrees, got %g", c.Lens.FOV*180/math.Pi)
	case c.Lens.DefocusDiskRadius < 0:
		return fmt.Errorf("defocus disk radius must not be negative, got %g", c.Lens.DefocusDiskRadius)
	case c.Lens.DefocusDiskRadius > 0 && c.Lens.FocalPlaneDistance <= 0:
		return fmt.Errorf("focal plane distance must be positive with a lens, got %g", c.Lens.FocalPlaneDistance)
	}
	return nil
}

// LensFromPhysical derives a lens from camera body parameters. focalLength,
// sensorSize and focusDistance share one unit; the result is in scene units
// when that unit matches the scene's.
func LensFromPhysical(focalLength, sensorSize, fStop, focusDistance float64) LensConfig {
	return LensConfig{
		FOV:                2 * math.Atan(sensorSize/(2*focalLength)),
		DefocusDiskRadius:  focalLength / fStop / 2,
		FocalPlaneDistance: focusDistance,
	}
}
