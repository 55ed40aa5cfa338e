package material

import (
	"github.com/df07/go-octree-pathtracer/pkg/core"
)

// lobe is a non-delta reflection distribution over the hemisphere of n.
// wo points away from the surface toward where the path came from.
type lobe interface {
	sample(sampler core.Sampler, wo, n core.Vec3, in ShadeInput) (core.Vec3, bool)
	eval(wo, wi, n core.Vec3, in ShadeInput) (brdf core.Vec3, pdf float64)
}

// lightSelectProbability is the chance of following the light sample
// instead of the BRDF sample when both strategies are available
const lightSelectProbability = 0.5

// shadeLobe samples the next direction from l, or from the light sample
// when one is supplied, and weights it by brdf·cos over the mixture pdf
// (one-sample MIS with the balance heuristic).
func shadeLobe(l lobe, sampler core.Sampler, in ShadeInput, state *PathState) (core.Vec3, bool) {
	n := facing(in.Normal, in.Incoming)
	wo := in.Incoming.Negate()

	useLight := in.LightSample != nil && in.LightPDF != nil

	var wi core.Vec3
	if useLight && sampler.Get1D() < lightSelectProbability {
		wi = *in.LightSample
	} else {
		var ok bool
		if wi, ok = l.sample(sampler, wo, n, in); !ok {
			return core.Vec3{}, false
		}
	}

	cosI := wi.Dot(n)
	if cosI <= 0 {
		return core.Vec3{}, false
	}

	brdf, pdf := l.eval(wo, wi, n, in)
	if useLight {
		pdf = (1-lightSelectProbability)*pdf + lightSelectProbability*in.LightPDF(wi)
	}
	if pdf <= 0 {
		return core.Vec3{}, false
	}

	state.Throughput = state.Throughput.MultiplyVec(brdf.Multiply(cosI / pdf))
	return wi, true
}
