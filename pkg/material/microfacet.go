package material

import (
	"math"

	"github.com/df07/go-octree-pathtracer/pkg/core"
)

// FresnelDielectric returns the unpolarized reflectance at a smooth
// boundary from a medium with index etaI into one with index etaT.
// cosI is the cosine between the incident direction and the normal.
// Total internal reflection returns 1.
func FresnelDielectric(cosI, etaI, etaT float64) float64 {
	cosI = math.Max(0, math.Min(1, cosI))
	sinT := etaI / etaT * math.Sqrt(math.Max(0, 1-cosI*cosI))
	if sinT >= 1 {
		return 1
	}
	cosT := math.Sqrt(math.Max(0, 1-sinT*sinT))

	rs := (etaI*cosI - etaT*cosT) / (etaI*cosI + etaT*cosT)
	rp := (etaT*cosI - etaI*cosT) / (etaT*cosI + etaI*cosT)
	return (rs*rs + rp*rp) / 2
}

// ggxD is the GGX normal distribution for half vector h
func ggxD(alpha float64, n, h core.Vec3) float64 {
	nh := n.Dot(h)
	if nh <= 0 {
		return 0
	}
	a2 := alpha * alpha
	d := nh*nh*(a2-1) + 1
	return a2 / (math.Pi * d * d)
}

// ggxG1 is the Smith masking term for direction v
func ggxG1(alpha float64, n, h, v core.Vec3) float64 {
	vn := v.Dot(n)
	if vn == 0 || v.Dot(h)/vn <= 0 {
		return 0
	}
	vn2 := vn * vn
	return 2 / (1 + math.Sqrt(1+alpha*alpha*(1-vn2)/vn2))
}

// sampleGGXHalf draws a half vector around n with density D(h)·(n·h)
func sampleGGXHalf(alpha float64, n core.Vec3, sample core.Vec2) core.Vec3 {
	a2 := alpha * alpha
	cosTheta := math.Sqrt((1 - sample.X) / (1 + (a2-1)*sample.X))
	sinTheta := math.Sqrt(math.Max(0, 1-cosTheta*cosTheta))
	phi := 2 * math.Pi * sample.Y

	local := core.NewVec3(sinTheta*math.Cos(phi), cosTheta, sinTheta*math.Sin(phi))
	return core.ToWorld(local, n)
}

// refract bends the unit direction d through a boundary with facing normal n.
// eta is the ratio etaI/etaT. ok is false on total internal reflection.
func refract(d, n core.Vec3, eta float64) (core.Vec3, bool) {
	cosI := -d.Dot(n)
	k := 1 - eta*eta*(1-cosI*cosI)
	if k < 0 {
		return core.Vec3{}, false
	}
	return d.Multiply(eta).Add(n.Multiply(eta*cosI - math.Sqrt(k))).Normalize(), true
}
