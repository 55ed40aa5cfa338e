package renderer

import (
	"math"

	"github.com/df07/go-octree-pathtracer/pkg/core"
	"github.com/df07/go-octree-pathtracer/pkg/geometry"
	"github.com/df07/go-octree-pathtracer/pkg/material"
	"github.com/df07/go-octree-pathtracer/pkg/scene"
)

// pathResult is the radiance carried by one camera path
type pathResult struct {
	radiance core.Vec3
	bounces  int
}

// castRay follows one path from origin through the scene and returns the
// radiance it gathers
func (t *Tracer) castRay(sc *scene.Scene, origin, direction core.Vec3, sampler core.Sampler) pathResult {
	cfg := t.config.RayTrace

	var profiles []geometry.EmissionProfile
	if cfg.LightSampling {
		profiles = sc.EmissionProfiles()
	}

	radiance := core.Vec3{}
	state := material.NewPathState()

	bounce := 0
	for {
		hit := sc.Trace(origin, direction)
		if !hit.Valid {
			radiance = radiance.Add(state.Throughput.MultiplyVec(cfg.Environment))
			break
		}

		surface := hit.Surface
		emitted := surface.Material.Emissivity(surface.UV, surface.HasUV)
		radiance = radiance.Add(state.Throughput.MultiplyVec(emitted))

		in := material.ShadeInput{
			Incoming: direction,
			Normal:   surface.Normal,
			UV:       surface.UV,
			HasUV:    surface.HasUV,
		}
		if len(profiles) > 0 {
			in.LightSample, in.LightPDF = sampleLights(profiles, hit.Point, sampler)
		}

		outgoing, ok := surface.Material.Shade(sampler, in, &state)
		if !ok {
			break
		}

		if bounce == cfg.MaxBounces {
			break
		}
		bounce++

		if bounce > cfg.MinBounces {
			var survived bool
			if state.Throughput, survived = russianRoulette(state.Throughput, sampler.Get1D()); !survived {
				break
			}
		}

		origin = offsetOrigin(hit.Point, surface.Normal, outgoing, cfg.Bias)
		direction = outgoing
	}

	return pathResult{radiance: radiance, bounces: bounce}
}

// russianRoulette keeps a path with probability p = min(1, max channel of
// throughput) given a uniform draw u, and scales survivors by 1/p
func russianRoulette(throughput core.Vec3, u float64) (core.Vec3, bool) {
	p := math.Min(1, throughput.MaxComponent())
	if !(p > 0) || u > p {
		return core.Vec3{}, false
	}
	return throughput.Multiply(1 / p), true
}

// offsetOrigin moves a hit point off the surface toward the side the
// outgoing ray leaves from
func offsetOrigin(point, normal, outgoing core.Vec3, bias float64) core.Vec3 {
	if outgoing.Dot(normal) < 0 {
		return point.Subtract(normal.Multiply(bias))
	}
	return point.Add(normal.Multiply(bias))
}

// sampleLights draws a direction from one emission profile chosen uniformly
// among those that can be sampled from point. The returned pdf averages the
// densities of all of them. Both results are nil when no profile is usable.
func sampleLights(profiles []geometry.EmissionProfile, point core.Vec3, sampler core.Sampler) (*core.Vec3, func(core.Vec3) float64) {
	var usable []geometry.EmissionProfile
	var samples []core.Vec3
	for _, profile := range profiles {
		if s, ok := profile.Sample(sampler, point); ok {
			usable = append(usable, profile)
			samples = append(samples, s.Direction)
		}
	}
	if len(usable) == 0 {
		return nil, nil
	}

	selected := min(int(sampler.Get1D()*float64(len(samples))), len(samples)-1)
	direction := samples[selected]

	pdf := func(dir core.Vec3) float64 {
		total := 0.0
		for _, profile := range usable {
			total += profile.PDF(point, dir)
		}
		return total / float64(len(usable))
	}
	return &direction, pdf
}
