package renderer

import (
	"math"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default config should be valid: %v", err)
	}

	if cfg.RayTrace.Bias != 1e-4 || cfg.RayTrace.MinBounces != 3 || cfg.RayTrace.MaxBounces != 16 ||
		cfg.RayTrace.SamplesPerPixel != 16 || cfg.System.Threads != 4 {
		t.Errorf("Unexpected defaults: %+v", cfg)
	}
	if math.Abs(cfg.Lens.FOV-math.Pi/2) > 1e-12 || cfg.Lens.FocalPlaneDistance != 1 || cfg.Lens.DefocusDiskRadius != 0 {
		t.Errorf("Unexpected lens defaults: %+v", cfg.Lens)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"No threads", func(c *Config) { c.System.Threads = 0 }},
		{"No samples", func(c *Config) { c.RayTrace.SamplesPerPixel = 0 }},
		{"Negative max bounces", func(c *Config) { c.RayTrace.MaxBounces = -1 }},
		{"Min above max", func(c *Config) { c.RayTrace.MinBounces = 20 }},
		{"Negative bias", func(c *Config) { c.RayTrace.Bias = -1 }},
		{"Zero FOV", func(c *Config) { c.Lens.FOV = 0 }},
		{"Straight angle FOV", func(c *Config) { c.Lens.FOV = math.Pi }},
		{"Negative aperture", func(c *Config) { c.Lens.DefocusDiskRadius = -0.1 }},
		{"Lens without focus", func(c *Config) {
			c.Lens.DefocusDiskRadius = 0.1
			c.Lens.FocalPlaneDistance = 0
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Expected a validation error")
			}
		})
	}
}

func TestLensFromPhysical(t *testing.T) {
	lens := LensFromPhysical(50, 36, 2, 5)

	if want := 2 * math.Atan(0.36); math.Abs(lens.FOV-want) > 1e-12 {
		t.Errorf("Expected FOV %f, got %f", want, lens.FOV)
	}
	if lens.DefocusDiskRadius != 12.5 {
		t.Errorf("Expected disk radius 12.5, got %f", lens.DefocusDiskRadius)
	}
	if lens.FocalPlaneDistance != 5 {
		t.Errorf("Expected focal distance 5, got %f", lens.FocalPlaneDistance)
	}
}
