package scene

import (
	"fmt"
	"sort"

	"github.com/df07/go-octree-pathtracer/pkg/core"
)

// Setup bundles a scene with the viewpoint, sky and sampling hints it was composed for
type Setup struct {
	Scene           *Scene
	Eye             core.Vec3 // Camera position
	LookAt          core.Vec3
	FOV             float64 // Degrees across the narrower image axis
	Aperture        float64 // Defocus disk radius, 0 for a pinhole
	FocusDistance   float64 // 0 focuses on LookAt
	Environment     core.Vec3
	Width, Height   int
	SamplesPerPixel int
	MaxBounces      int
}

// Direction returns the unit vector from Eye to LookAt
func (s *Setup) Direction() core.Vec3 {
	return s.LookAt.Subtract(s.Eye).Normalize()
}

// Focus returns the focal plane distance, defaulting to the LookAt distance
func (s *Setup) Focus() float64 {
	if s.FocusDistance > 0 {
		return s.FocusDistance
	}
	return s.LookAt.Subtract(s.Eye).Length()
}

// presets maps a preset name to its constructor
var presets = map[string]func() *Setup{
	"cornell":    NewCornellScene,
	"default":    NewDefaultScene,
	"spheregrid": NewSphereGridScene,
	"glass":      NewGlassScene,
}

// PresetNames lists the built-in scenes in alphabetical order
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewPreset constructs the named built-in scene
func NewPreset(name string) (*Setup, error) {
	build, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("unknown scene preset %q (available: %v)", name, PresetNames())
	}
	return build(), nil
}
