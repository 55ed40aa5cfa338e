package geometry

import (
	"github.com/df07/go-octree-pathtracer/pkg/core"
)

// determinantEpsilon rejects hits on faces seen edge-on or from behind
const determinantEpsilon = 1e-6

// CullMode selects which triangle windings a mesh ignores. Winding is judged
// as seen from the ray origin; clockwise faces are the front faces.
type CullMode int

const (
	// CullNone tests both windings
	CullNone CullMode = iota
	// CullFront discards clockwise faces
	CullFront
	// CullBack discards counter-clockwise faces
	CullBack
)

// String returns the lowercase mode name
func (c CullMode) String() string {
	switch c {
	case CullFront:
		return "front"
	case CullBack:
		return "back"
	default:
		return "none"
	}
}

// intersectCCW is a one-sided Möller–Trumbore test that only accepts the
// triangle when p0, p1, p2 appear counter-clockwise from the ray origin.
// b1 and b2 are the barycentric weights of p1 and p2.
func intersectCCW(p0, p1, p2, origin, direction core.Vec3) (t, b1, b2 float64, ok bool) {
	edge1 := p1.Subtract(p0)
	edge2 := p2.Subtract(p0)

	pVec := direction.Cross(edge2)
	det := edge1.Dot(pVec)
	if det < determinantEpsilon {
		return 0, 0, 0, false
	}
	invDet := 1 / det

	tVec := origin.Subtract(p0)
	b1 = tVec.Dot(pVec) * invDet
	if b1 < 0 || b1 > 1 {
		return 0, 0, 0, false
	}

	qVec := tVec.Cross(edge1)
	b2 = direction.Dot(qVec) * invDet
	if b2 < 0 || b1+b2 > 1 {
		return 0, 0, 0, false
	}

	t = edge2.Dot(qVec) * invDet
	if t < 0 {
		return 0, 0, 0, false
	}
	return t, b1, b2, true
}

// intersectTriangle applies the cull mode and returns barycentrics of p1 and p2
func intersectTriangle(p0, p1, p2, origin, direction core.Vec3, cull CullMode) (t, b1, b2 float64, ok bool) {
	if cull != CullFront {
		// clockwise: swap p1 and p2 so the test sees counter-clockwise order
		if t, b2, b1, ok = intersectCCW(p0, p2, p1, origin, direction); ok {
			return t, b1, b2, true
		}
	}
	if cull != CullBack {
		return intersectCCW(p0, p1, p2, origin, direction)
	}
	return 0, 0, 0, false
}
