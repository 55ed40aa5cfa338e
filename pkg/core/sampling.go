package core

import (
	"math"
	"math/rand/v2"
)

// Sampler provides random sampling for rendering algorithms
// Can be swapped out for deterministic testing or different sampling patterns
type Sampler interface {
	Get1D() float64
	Get2D() Vec2
	Get3D() Vec3
}

// RandomSampler wraps a PCG generator. A sampler is owned by a single goroutine.
type RandomSampler struct {
	source *rand.PCG
	random *rand.Rand
}

// NewRandomSampler creates a sampler seeded with the given stream
func NewRandomSampler(seed, stream uint64) *RandomSampler {
	source := rand.NewPCG(seed, stream)
	return &RandomSampler{source: source, random: rand.New(source)}
}

// Reseed restarts the generator on a new stream without allocating
func (r *RandomSampler) Reseed(seed, stream uint64) {
	r.source.Seed(seed, stream)
}

// Get1D returns a random float64 in [0, 1)
func (r *RandomSampler) Get1D() float64 {
	return r.random.Float64()
}

// Get2D returns two random float64 values in [0, 1)
func (r *RandomSampler) Get2D() Vec2 {
	return NewVec2(r.random.Float64(), r.random.Float64())
}

// Get3D returns three random float64 values in [0, 1)
func (r *RandomSampler) Get3D() Vec3 {
	return NewVec3(r.random.Float64(), r.random.Float64(), r.random.Float64())
}

// OrthonormalBasis builds two unit tangents perpendicular to up, so that
// (tangent, up, bitangent) is a right-handed frame with up as the local Y axis
func OrthonormalBasis(up Vec3) (tangent, bitangent Vec3) {
	if math.Abs(up.X) > math.Abs(up.Y) {
		bitangent = NewVec3(up.Z, 0, -up.X).Normalize()
	} else {
		bitangent = NewVec3(0, -up.Z, up.Y).Normalize()
	}
	tangent = up.Cross(bitangent)
	return tangent, bitangent
}

// ToWorld maps a direction from the local frame (Y along normal) into world space
func ToWorld(local, normal Vec3) Vec3 {
	tangent, bitangent := OrthonormalBasis(normal)
	return tangent.Multiply(local.X).Add(normal.Multiply(local.Y)).Add(bitangent.Multiply(local.Z))
}

// SampleCosineHemisphere generates a cosine-weighted random direction in hemisphere around normal
func SampleCosineHemisphere(normal Vec3, sample Vec2) Vec3 {
	r := math.Sqrt(sample.X)
	phi := 2.0 * math.Pi * sample.Y

	local := NewVec3(r*math.Cos(phi), math.Sqrt(math.Max(0, 1.0-sample.X)), r*math.Sin(phi))
	return ToWorld(local, normal)
}

// CosineHemispherePDF returns the solid angle pdf of SampleCosineHemisphere
func CosineHemispherePDF(normal, direction Vec3) float64 {
	cosTheta := normal.Dot(direction)
	if cosTheta <= 0 {
		return 0
	}
	return cosTheta / math.Pi
}

// SampleUniformHemisphere generates a uniformly distributed direction in hemisphere around normal
func SampleUniformHemisphere(normal Vec3, sample Vec2) Vec3 {
	cosTheta := sample.X
	sinTheta := math.Sqrt(math.Max(0, 1.0-cosTheta*cosTheta))
	phi := 2.0 * math.Pi * sample.Y

	local := NewVec3(sinTheta*math.Cos(phi), cosTheta, sinTheta*math.Sin(phi))
	return ToWorld(local, normal)
}

// UniformHemispherePDF is the constant solid angle pdf of SampleUniformHemisphere
const UniformHemispherePDF = 1.0 / (2.0 * math.Pi)

// SampleCone samples a direction uniformly within a cone
func SampleCone(direction Vec3, cosTotalWidth float64, sample Vec2) Vec3 {
	cosTheta := 1.0 - sample.X*(1.0-cosTotalWidth)
	sinTheta := math.Sqrt(math.Max(0, 1.0-cosTheta*cosTheta))
	phi := 2.0 * math.Pi * sample.Y

	local := NewVec3(sinTheta*math.Cos(phi), cosTheta, sinTheta*math.Sin(phi))
	return ToWorld(local, direction)
}

// ConePDF returns the solid angle pdf of SampleCone
func ConePDF(cosTotalWidth float64) float64 {
	return 1.0 / (2.0 * math.Pi * (1.0 - cosTotalWidth))
}

// SampleOnUnitSphere generates a uniform random direction on the unit sphere
func SampleOnUnitSphere(sample Vec2) Vec3 {
	z := 1.0 - 2.0*sample.X // z ∈ [-1, 1]
	r := math.Sqrt(math.Max(0, 1.0-z*z))
	phi := 2.0 * math.Pi * sample.Y
	return NewVec3(r*math.Cos(phi), r*math.Sin(phi), z)
}

// SamplePointInUnitDisk generates a random point in a unit disk using concentric mapping
// This avoids rejection sampling by mapping a square uniformly to a disk
func SamplePointInUnitDisk(sample Vec2) Vec2 {
	// Map sample to [-1,1]² and handle degeneracy at the origin
	uOffset := NewVec2(2*sample.X-1, 2*sample.Y-1)
	if uOffset.X == 0 && uOffset.Y == 0 {
		return NewVec2(0, 0)
	}

	var theta, r float64
	if math.Abs(uOffset.X) > math.Abs(uOffset.Y) {
		r = uOffset.X
		theta = math.Pi / 4 * (uOffset.Y / uOffset.X)
	} else {
		r = uOffset.Y
		theta = math.Pi/2 - math.Pi/4*(uOffset.X/uOffset.Y)
	}

	return NewVec2(r*math.Cos(theta), r*math.Sin(theta))
}

// SampleTriangle returns uniform barycentric coordinates (b1, b2) over a triangle
func SampleTriangle(sample Vec2) (float64, float64) {
	su := math.Sqrt(sample.X)
	return 1 - su, sample.Y * su
}
