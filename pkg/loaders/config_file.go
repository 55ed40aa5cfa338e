package loaders

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/df07/go-octree-pathtracer/pkg/core"
	"github.com/df07/go-octree-pathtracer/pkg/renderer"
)

// configFile mirrors renderer.Config with optional fields. Only the settings
// present in the file override the base config.
type configFile struct {
	System   systemSection   `toml:"system" yaml:"system"`
	RayTrace raytraceSection `toml:"raytrace" yaml:"raytrace"`
	Lens     lensSection     `toml:"lens" yaml:"lens"`
}

type systemSection struct {
	Threads          *int    `toml:"threads" yaml:"threads"`
	ProgressInterval *string `toml:"progress_interval" yaml:"progress_interval"`
}

type raytraceSection struct {
	Bias            *float64  `toml:"bias" yaml:"bias"`
	Environment     []float64 `toml:"environment" yaml:"environment"`
	MinBounces      *int      `toml:"min_bounces" yaml:"min_bounces"`
	MaxBounces      *int      `toml:"max_bounces" yaml:"max_bounces"`
	SamplesPerPixel *int      `toml:"samples_per_pixel" yaml:"samples_per_pixel"`
	Seed            *uint64   `toml:"seed" yaml:"seed"`
	Jitter          *bool     `toml:"jitter" yaml:"jitter"`
	LightSampling   *bool     `toml:"light_sampling" yaml:"light_sampling"`
}

type lensSection struct {
	FOV                *float64         `toml:"fov" yaml:"fov"` // Degrees
	DefocusDiskRadius  *float64         `toml:"defocus_disk_radius" yaml:"defocus_disk_radius"`
	FocalPlaneDistance *float64         `toml:"focal_plane_distance" yaml:"focal_plane_distance"`
	Physical           *physicalSection `toml:"physical" yaml:"physical"`
}

type physicalSection struct {
	FocalLength   float64 `toml:"focal_length" yaml:"focal_length"`
	SensorSize    float64 `toml:"sensor_size" yaml:"sensor_size"`
	FStop         float64 `toml:"f_stop" yaml:"f_stop"`
	FocusDistance float64 `toml:"focus_distance" yaml:"focus_distance"`
}

// LoadConfig reads a .toml, .yaml or .yml file and overlays it onto base.
// The result is validated.
func LoadConfig(filename string, base renderer.Config) (renderer.Config, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return base, fmt.Errorf("failed to read config file: %w", err)
	}

	var file configFile
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".toml":
		decoder := toml.NewDecoder(bytes.NewReader(content))
		decoder.DisallowUnknownFields()
		err = decoder.Decode(&file)
	case ".yaml", ".yml":
		decoder := yaml.NewDecoder(bytes.NewReader(content))
		decoder.KnownFields(true)
		err = decoder.Decode(&file)
	default:
		return base, fmt.Errorf("unsupported config extension %q", ext)
	}
	if err != nil {
		return base, fmt.Errorf("failed to parse %s: %w", filename, err)
	}

	config, err := file.apply(base)
	if err != nil {
		return base, fmt.Errorf("%s: %w", filename, err)
	}
	if err := config.Validate(); err != nil {
		return base, fmt.Errorf("%s: %w", filename, err)
	}

	logger.Infof("loaded config %s", filename)
	return config, nil
}

func (f *configFile) apply(config renderer.Config) (renderer.Config, error) {
	if f.System.Threads != nil {
		config.System.Threads = *f.System.Threads
	}
	if f.System.ProgressInterval != nil {
		interval, err := time.ParseDuration(*f.System.ProgressInterval)
		if err != nil {
			return config, fmt.Errorf("invalid progress_interval: %w", err)
		}
		config.System.ProgressInterval = interval
	}

	rt := f.RayTrace
	if rt.Bias != nil {
		config.RayTrace.Bias = *rt.Bias
	}
	if rt.Environment != nil {
		if len(rt.Environment) != 3 {
			return config, fmt.Errorf("environment needs 3 components, got %d", len(rt.Environment))
		}
		config.RayTrace.Environment = core.NewVec3(rt.Environment[0], rt.Environment[1], rt.Environment[2])
	}
	if rt.MinBounces != nil {
		config.RayTrace.MinBounces = *rt.MinBounces
	}
	if rt.MaxBounces != nil {
		config.RayTrace.MaxBounces = *rt.MaxBounces
	}
	if rt.SamplesPerPixel != nil {
		config.RayTrace.SamplesPerPixel = *rt.SamplesPerPixel
	}
	if rt.Seed != nil {
		config.RayTrace.Seed = *rt.Seed
	}
	if rt.Jitter != nil {
		config.RayTrace.Jitter = *rt.Jitter
	}
	if rt.LightSampling != nil {
		config.RayTrace.LightSampling = *rt.LightSampling
	}

	lens := f.Lens
	if lens.Physical != nil {
		p := lens.Physical
		if p.FocalLength <= 0 || p.SensorSize <= 0 || p.FStop <= 0 {
			return config, fmt.Errorf("physical lens dimensions must be positive")
		}
		config.Lens = renderer.LensFromPhysical(p.FocalLength, p.SensorSize, p.FStop, p.FocusDistance)
	}
	if lens.FOV != nil {
		config.Lens.FOV = *lens.FOV * math.Pi / 180
	}
	if lens.DefocusDiskRadius != nil {
		config.Lens.DefocusDiskRadius = *lens.DefocusDiskRadius
	}
	if lens.FocalPlaneDistance != nil {
		config.Lens.FocalPlaneDistance = *lens.FocalPlaneDistance
	}
	return config, nil
}
