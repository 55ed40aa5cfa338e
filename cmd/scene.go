package cmd

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/urfave/cli"

	"github.com/df07/go-octree-pathtracer/pkg/loaders"
	"github.com/df07/go-octree-pathtracer/pkg/renderer"
	"github.com/df07/go-octree-pathtracer/pkg/scene"
)

// loadSetup reads the scene file argument, or the --preset scene when there is none.
// The returned name labels output files.
func loadSetup(ctx *cli.Context) (*scene.Setup, string, error) {
	switch ctx.NArg() {
	case 0:
		name := ctx.String("preset")
		setup, err := scene.NewPreset(name)
		if err != nil {
			return nil, "", err
		}
		return setup, name, nil
	case 1:
		file := ctx.Args().First()
		setup, err := loaders.LoadScene(file)
		if err != nil {
			return nil, "", err
		}
		return setup, strings.TrimSuffix(filepath.Base(file), filepath.Ext(file)), nil
	default:
		return nil, "", fmt.Errorf("expected at most one scene file, got %d", ctx.NArg())
	}
}

// configForSetup seeds a tracer config with the viewpoint and sampling hints of a scene
func configForSetup(setup *scene.Setup) renderer.Config {
	config := renderer.DefaultConfig()
	config.RayTrace.Environment = setup.Environment

	if setup.SamplesPerPixel > 0 {
		config.RayTrace.SamplesPerPixel = setup.SamplesPerPixel
	}
	if setup.MaxBounces > 0 {
		config.RayTrace.MaxBounces = setup.MaxBounces
		config.RayTrace.MinBounces = min(config.RayTrace.MinBounces, setup.MaxBounces)
	}

	config.Lens = renderer.LensConfig{
		FOV:                setup.FOV * math.Pi / 180,
		DefocusDiskRadius:  setup.Aperture,
		FocalPlaneDistance: setup.Focus(),
	}
	return config
}

// buildConfig layers the scene hints, the --config file and the command line flags
func buildConfig(ctx *cli.Context, setup *scene.Setup) (renderer.Config, error) {
	config := configForSetup(setup)

	if file := ctx.String("config"); file != "" {
		var err error
		if config, err = loaders.LoadConfig(file, config); err != nil {
			return config, err
		}
	}

	if ctx.IsSet("spp") {
		config.RayTrace.SamplesPerPixel = ctx.Int("spp")
	}
	if ctx.IsSet("threads") {
		config.System.Threads = ctx.Int("threads")
	}
	if ctx.IsSet("max-bounces") {
		config.RayTrace.MaxBounces = ctx.Int("max-bounces")
	}
	if ctx.IsSet("min-bounces") {
		config.RayTrace.MinBounces = ctx.Int("min-bounces")
	}
	if ctx.IsSet("seed") {
		config.RayTrace.Seed = ctx.Uint64("seed")
	}
	if ctx.IsSet("light-sampling") {
		config.RayTrace.LightSampling = ctx.Bool("light-sampling")
	}

	if err := config.Validate(); err != nil {
		return config, fmt.Errorf("invalid render settings: %w", err)
	}
	return config, nil
}
